package topicpage

import (
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
)

// PageBundles are the message files a topic page needs.
var PageBundles = []string{"place", "stats_var_labels", "units"}

// Page is a parsed topic page. It is usable right away with the fallback
// texts; translations are swapped in once they finish loading.
type Page struct {
	Props *domain.TopicPageProps

	mx      sync.RWMutex
	bundle  *Bundle
	loadErr error
	ready   chan struct{}
}

// Translations never blocks. Before loading finishes it returns an empty
// bundle of the requested locale.
func (p *Page) Translations() *Bundle {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.bundle
}

// Ready is closed when loading finished, successfully or not.
func (p *Page) Ready() <-chan struct{} {
	return p.ready
}

func (p *Page) LoadErr() error {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.loadErr
}

// Bootstrap parses doc and starts loading the locale's messages. A failed
// load leaves the page on its fallback texts.
func (s *Service) Bootstrap(ctx context.Context, doc *goquery.Document, loader *LocaleLoader, locale language.Tag) (*Page, error) {
	props, err := s.ParseDocument(doc)
	if err != nil {
		logger.Errorf(ctx, "topic page bootstrap: %s", err.Error())
		return nil, err
	}

	page := &Page{
		Props:  props,
		bundle: NewBundle(locale, map[string]string{}),
		ready:  make(chan struct{}),
	}

	go func() {
		defer close(page.ready)

		bundle, loadErr := loader.Load(ctx, locale, PageBundles...)

		page.mx.Lock()
		defer page.mx.Unlock()
		if loadErr != nil {
			logger.Warnf(ctx, "load %s messages for topic %s: %s", locale, props.Topic, loadErr.Error())
			page.loadErr = loadErr
			return
		}
		page.bundle = bundle
	}()

	return page, nil
}
