package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/ougirez/mapwizard/internal/api"
	"github.com/ougirez/mapwizard/internal/pkg/config"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
	"github.com/ougirez/mapwizard/internal/pkg/store"
	"github.com/ougirez/mapwizard/internal/pkg/store/xpgx"
	"github.com/ougirez/mapwizard/internal/service/auth"
	"github.com/ougirez/mapwizard/internal/service/topicpage"
	"github.com/ougirez/mapwizard/internal/service/wizard"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config")
	flag.Parse()

	ctx := context.Background()

	if err := config.Load(*configPath); err != nil {
		logger.Fatal(ctx, "load config: ", err)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetBool(constants.ViperLogDevelopmentKey)); err != nil {
		logger.Fatal(ctx, "init logger: ", err)
	}
	defer logger.Sync()

	sessions, closeStore, err := newStore(ctx)
	if err != nil {
		logger.Fatal(ctx, "init store: ", err)
	}
	defer closeStore()

	locales, err := topicpage.NewLocaleLoader(
		viper.GetString(constants.ViperLocaleDirKey),
		viper.GetString(constants.ViperLocaleDefaultKey),
		viper.GetStringSlice(constants.ViperLocaleSupportedKey)...,
	)
	if err != nil {
		logger.Fatal(ctx, "init locales: ", err)
	}

	svc, err := api.NewAPIService(sessions, locales, api.Config{
		AllowOrigins: viper.GetStringSlice(constants.ViperAllowOriginsKey),
		Token: auth.Config{
			Secret: viper.GetString(constants.ViperSecretKey),
			TTL:    viper.GetDuration(constants.ViperTokenTTLKey),
		},
		Csv: wizard.CsvOpts{
			SampleSize:  viper.GetInt(constants.ViperCsvSampleSizeKey),
			DisplayRows: viper.GetInt(constants.ViperCsvDisplayRowsKey),
		},
		PreviewRows: viper.GetInt(constants.ViperPreviewRowsKey),
		TopicPage: topicpage.Options{
			SortChildPlaces: viper.GetBool(constants.ViperSortChildPlacesKey),
			FetchRetries:    viper.GetUint64(constants.ViperTopicFetchRetriesKey),
		},
		TopicUpstream: viper.GetString(constants.ViperTopicUpstreamKey),
		Debug:         viper.GetBool(constants.ViperLogDevelopmentKey),
	})
	if err != nil {
		logger.Fatal(ctx, "init api: ", err)
	}

	addr := viper.GetString(constants.ViperServerAddrKey)
	go svc.Serve(addr)
	logger.Infof(ctx, "listening on %s", addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "shutdown: %s", err.Error())
	}
}

func newStore(ctx context.Context) (store.Store, func(), error) {
	if viper.GetString(constants.ViperStoreDriverKey) != constants.StoreDriverPostgres {
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperStoreDSNKey))
	if err != nil {
		return nil, nil, err
	}
	if err = store.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.NewStore(pool), pool.Close, nil
}
