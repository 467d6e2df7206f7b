package controller

import (
	"context"
	"sync"

	"golang.org/x/text/language"

	"github.com/ougirez/mapwizard/internal/pkg/logger"
	"github.com/ougirez/mapwizard/internal/service/auth"
	"github.com/ougirez/mapwizard/internal/service/topicpage"
	"github.com/ougirez/mapwizard/internal/service/wizard"
)

// wizardBundles are the message files the mapping form is rendered with.
var wizardBundles = []string{"import_wizard"}

type Controller struct {
	wizard    *wizard.Service
	topicPage *topicpage.Service
	locales   *topicpage.LocaleLoader
	auth      *auth.Service
	// topicUpstream is the base URL topic pages are fetched from.
	topicUpstream string

	bundlesMx sync.Mutex
	bundles   map[language.Tag]*topicpage.Bundle
}

func NewController(
	wizardService *wizard.Service,
	topicPageService *topicpage.Service,
	locales *topicpage.LocaleLoader,
	authService *auth.Service,
	topicUpstream string,
) *Controller {
	return &Controller{
		wizard:        wizardService,
		topicPage:     topicPageService,
		locales:       locales,
		auth:          authService,
		topicUpstream: topicUpstream,
		bundles:       make(map[language.Tag]*topicpage.Bundle),
	}
}

// translations returns the wizard messages of tag. Loaded bundles are cached;
// a failed load renders with the built-in texts and is retried next request.
func (c *Controller) translations(ctx context.Context, tag language.Tag) *topicpage.Bundle {
	c.bundlesMx.Lock()
	b, ok := c.bundles[tag]
	c.bundlesMx.Unlock()
	if ok {
		return b
	}

	b, err := c.locales.Load(ctx, tag, wizardBundles...)
	if err != nil {
		logger.Warnf(ctx, "load %s wizard messages: %s", tag, err.Error())
		return topicpage.NewBundle(tag, map[string]string{})
	}

	c.bundlesMx.Lock()
	defer c.bundlesMx.Unlock()
	if cached, ok := c.bundles[tag]; ok {
		return cached
	}
	c.bundles[tag] = b
	return b
}
