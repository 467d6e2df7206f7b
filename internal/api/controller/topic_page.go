package controller

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"

	"github.com/ougirez/mapwizard/internal/domain/dto"
)

const maxTopicPageBytes = 8 << 20

// ParseTopicPage bootstraps a rendered topic page posted as the body and waits
// for its translations of the request locale.
func (c *Controller) ParseTopicPage(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	doc, err := goquery.NewDocumentFromReader(http.MaxBytesReader(ctx.Response(), ctx.Request().Body, maxTopicPageBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid html body").SetInternal(err)
	}

	tag := c.locales.Match(ctx.Request().Header.Get("Accept-Language"))
	page, err := c.topicPage.Bootstrap(reqCtx, doc, c.locales, tag)
	if err != nil {
		return err
	}

	select {
	case <-page.Ready():
	case <-reqCtx.Done():
		return reqCtx.Err()
	}

	return ctx.JSON(http.StatusOK, dto.TopicPageResponse{
		Props:        page.Props,
		Locale:       tag.String(),
		MessageCount: page.Translations().Len(),
		Translated:   page.LoadErr() == nil,
	})
}

// FetchTopicPage loads /topic/<topic>/<place> from the upstream site.
func (c *Controller) FetchTopicPage(ctx echo.Context) error {
	if c.topicUpstream == "" {
		return echo.NewHTTPError(http.StatusNotFound, "topic page upstream is not configured")
	}

	pageURL := fmt.Sprintf("%s/topic/%s/%s", c.topicUpstream, url.PathEscape(ctx.Param("topic")), url.PathEscape(ctx.Param("place")))
	props, err := c.topicPage.Load(ctx.Request().Context(), pageURL)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, props)
}
