package topicpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
)

// AttributeError reports a page attribute that is missing or does not decode.
type AttributeError struct {
	Element string
	Attr    string
	Err     error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("#%s[%s]: %s", e.Element, e.Attr, e.Err.Error())
}

func (e *AttributeError) Unwrap() []error {
	return []error{constants.ErrMalformedAttribute, e.Err}
}

type Options struct {
	// SortChildPlaces sorts every child place list by name.
	SortChildPlaces bool
	FetchRetries    uint64
	HTTPClient      *http.Client
}

type Service struct {
	validate *validator.Validate
	opts     Options
}

func NewTopicPageService(opts Options) *Service {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{validate: validator.New(), opts: opts}
}

type pageConfigSchema struct {
	Metadata *struct {
		TopicID   string   `json:"topic_id" validate:"required"`
		PlaceDcid []string `json:"place_dcid" validate:"dive,required"`
	} `json:"metadata" validate:"required"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
}

// ParseHTML reads the page metadata block out of a rendered topic page.
func (s *Service) ParseHTML(r io.Reader) (*domain.TopicPageProps, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}
	return s.ParseDocument(doc)
}

func (s *Service) ParseDocument(doc *goquery.Document) (*domain.TopicPageProps, error) {
	props := &domain.TopicPageProps{}
	var err error

	if props.Topic, err = requiredAttr(doc, "metadata", "data-topic-id"); err != nil {
		return nil, err
	}
	dcid, _ := optionalAttr(doc, "metadata", "data-place-dcid")

	if err = s.decodeAttr(doc, "metadata", "data-more-places", &props.MorePlaces); err != nil {
		return nil, err
	}
	if err = s.validate.Var(props.MorePlaces, "dive,required"); err != nil {
		return nil, &AttributeError{Element: "metadata", Attr: "data-more-places", Err: err}
	}

	placeName, _ := optionalAttr(doc, "place-name", "data-pn")
	placeType, _ := optionalAttr(doc, "place-type", "data-pt")
	if placeType == "" {
		placeType = domain.DefaultPagePlaceType
	}
	if placeName == "" {
		placeName = dcid
	}
	props.Place = domain.NamedTypedPlace{Dcid: dcid, Name: placeName, Types: []string{placeType}}

	if err = s.decodeAttr(doc, "topic-config", "data-config", &props.PageConfig); err != nil {
		return nil, err
	}
	var schema pageConfigSchema
	if err = s.decodeAttr(doc, "topic-config", "data-config", &schema); err != nil {
		return nil, err
	}
	if err = s.validate.Struct(schema); err != nil {
		return nil, &AttributeError{Element: "topic-config", Attr: "data-config", Err: err}
	}

	if err = s.decodeAttr(doc, "topic-config", "data-topics-summary", &props.TopicsSummary); err != nil {
		return nil, err
	}
	for topic, summary := range props.TopicsSummary.TopicSummaries {
		if err = s.validate.Var(summary.StatVarDcids, "dive,required"); err != nil {
			return nil, &AttributeError{Element: "topic-config", Attr: "data-topics-summary",
				Err: fmt.Errorf("topic %s: %w", topic, err)}
		}
	}

	if err = s.decodeAttr(doc, "topic-page-options", "data-show-child-places", &props.ShowChildPlaces); err != nil {
		return nil, err
	}
	if err = s.decodeAttr(doc, "topic-page-options", "data-display-searchbar", &props.DisplaySearchbar); err != nil {
		return nil, err
	}

	if err = s.decodeAttr(doc, "place-children", "data-pc", &props.ChildPlaces); err != nil {
		return nil, err
	}
	if props.ChildPlaces == nil {
		props.ChildPlaces = domain.ChildPlacesByType{}
	}
	for placeType, places := range props.ChildPlaces {
		for i := range places {
			if err = s.validate.Struct(places[i]); err != nil {
				return nil, &AttributeError{Element: "place-children", Attr: "data-pc",
					Err: fmt.Errorf("%s[%d]: %w", placeType, i, err)}
			}
		}
	}
	if s.opts.SortChildPlaces {
		props.ChildPlaces = SortChildPlacesBy(props.ChildPlaces, "name")
	}

	props.SearchAutocomplete = domain.SearchAutocomplete{
		URL:          "/topic/" + props.Topic,
		Restrictions: map[string]string{"country": "us"},
	}

	return props, nil
}

// Load fetches a rendered topic page and parses it.
func (s *Service) Load(ctx context.Context, url string) (props *domain.TopicPageProps, err error) {
	var resp *http.Response
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequest: %w", reqErr))
			}

			var httpErr error
			resp, httpErr = s.opts.HTTPClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Do: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				statusErr := fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				if resp.StatusCode < http.StatusInternalServerError {
					return backoff.Permanent(statusErr)
				}
				return statusErr
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), s.opts.FetchRetries),
			ctx,
		),
	)
	if err != nil {
		logger.Errorf(ctx, "fetch topic page %s: %s", url, err.Error())
		return nil, err
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close reader: %w", closeErr)
		}
	}()

	return s.ParseHTML(resp.Body)
}

func findElement(doc *goquery.Document, id string) (*goquery.Selection, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("element not found")
	}
	return sel.First(), nil
}

func optionalAttr(doc *goquery.Document, id, attr string) (string, bool) {
	sel, err := findElement(doc, id)
	if err != nil {
		return "", false
	}
	return sel.Attr(attr)
}

func requiredAttr(doc *goquery.Document, id, attr string) (string, error) {
	sel, err := findElement(doc, id)
	if err != nil {
		return "", &AttributeError{Element: id, Attr: attr, Err: err}
	}
	val, ok := sel.Attr(attr)
	if !ok || strings.TrimSpace(val) == "" {
		return "", &AttributeError{Element: id, Attr: attr, Err: fmt.Errorf("attribute missing")}
	}
	return val, nil
}

func (s *Service) decodeAttr(doc *goquery.Document, id, attr string, dst interface{}) error {
	raw, err := requiredAttr(doc, id, attr)
	if err != nil {
		return err
	}
	if err = sonic.UnmarshalString(raw, dst); err != nil {
		return &AttributeError{Element: id, Attr: attr, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return nil
}
