package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/domain/dto"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/service/templates"
)

func (c *Controller) ListTemplates(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, templates.All())
}

func (c *Controller) CreateSession(ctx echo.Context) error {
	templateID := ctx.FormValue("template")
	if templateID == "" {
		return fmt.Errorf("%w: empty template", constants.ErrUnknownTemplate)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing csv file").SetInternal(err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("fileHeader.Open: %w", err)
	}
	defer file.Close()

	session, err := c.wizard.CreateSession(ctx.Request().Context(), templateID, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	token, err := c.auth.IssueSessionToken(session.ID)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeySessionToken,
		Value:    token,
		Path:     "/api/v1/sessions/" + session.ID,
		Expires:  time.Now().Add(c.auth.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	view, err := c.wizard.RenderSession(session, nil)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, dto.CreateSessionResponse{
		Session: dto.NewSessionResponse(session, view),
		Token:   token,
	})
}

func (c *Controller) GetSession(ctx echo.Context) error {
	session, err := c.wizard.GetSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return c.sessionJSON(ctx, session)
}

func (c *Controller) GetSessionView(ctx echo.Context) error {
	session, err := c.wizard.GetSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	view, err := c.wizard.RenderSession(session, nil)
	if err != nil {
		return err
	}

	if ctx.QueryParam("format") != "html" {
		return ctx.JSON(http.StatusOK, view)
	}

	tag := c.locales.Match(ctx.Request().Header.Get("Accept-Language"))
	var buf bytes.Buffer
	if err = templates.RenderHTML(&buf, view, c.translations(ctx.Request().Context(), tag)); err != nil {
		return err
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (c *Controller) UpdateMapping(ctx echo.Context) error {
	var req dto.UpdateMappingRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	thing, err := domain.ParseMappedThing(req.Thing)
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrUnknownMappedThing, err.Error())
	}

	session, err := c.wizard.UpdateMapping(ctx.Request().Context(), ctx.Param("id"), thing, req.Val)
	if err != nil {
		return err
	}
	return c.sessionJSON(ctx, session)
}

func (c *Controller) ChangeTemplate(ctx echo.Context) error {
	var req dto.ChangeTemplateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	session, err := c.wizard.ChangeTemplate(ctx.Request().Context(), ctx.Param("id"), req.Template)
	if err != nil {
		return err
	}
	return c.sessionJSON(ctx, session)
}

func (c *Controller) CheckMapping(ctx echo.Context) error {
	res, err := c.wizard.CheckMapping(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) Preview(ctx echo.Context) error {
	res, err := c.wizard.Preview(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) DeleteSession(ctx echo.Context) error {
	if err := c.wizard.DeleteSession(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) sessionJSON(ctx echo.Context, session *domain.Session) error {
	view, err := c.wizard.RenderSession(session, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dto.NewSessionResponse(session, view))
}
