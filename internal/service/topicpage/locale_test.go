package topicpage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeMessages(t *testing.T, dir, locale, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, locale), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, locale, name+".json"), []byte(body), 0o644))
}

func TestLocaleLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeMessages(t, dir, "en", "place", `{"place.county":"County"}`)
	writeMessages(t, dir, "en", "units", `{"unit.usd":[{"type":0,"value":"US "},{"type":0,"value":"Dollar"}]}`)

	loader, err := NewLocaleLoader(dir, "", "en", "fr")
	require.NoError(t, err)

	bundle, err := loader.Load(context.Background(), language.English, "place", "units")
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Len())
	assert.Equal(t, "County", bundle.T("place.county", "x"))
	assert.Equal(t, "US Dollar", bundle.T("unit.usd", "x"))
	assert.Equal(t, "fallback", bundle.T("missing", "fallback"))

	_, err = loader.Load(context.Background(), language.English, "place", "stats_var_labels")
	assert.Error(t, err)
}

func TestLocaleLoader_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeMessages(t, dir, "en", "place", `{"a": 1}`)

	loader, err := NewLocaleLoader(dir, "")
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), language.English, "place")
	assert.Error(t, err)
}

func TestLocaleLoader_Match(t *testing.T) {
	loader, err := NewLocaleLoader(t.TempDir(), "", "en", "fr", "es")
	require.NoError(t, err)

	assert.Equal(t, language.English, loader.Default())
	assert.Equal(t, "fr", loader.Match("fr-CA,fr;q=0.9").String())
	assert.Equal(t, "es", loader.Match("es-MX").String())
	assert.Equal(t, "en", loader.Match("de").String())
	assert.Equal(t, "en", loader.Match("").String())

	_, err = NewLocaleLoader(t.TempDir(), "", "??")
	assert.Error(t, err)
	_, err = NewLocaleLoader(t.TempDir(), "??", "en")
	assert.Error(t, err)
}

func TestLocaleLoader_ExplicitDefault(t *testing.T) {
	loader, err := NewLocaleLoader(t.TempDir(), "fr", "en", "es")
	require.NoError(t, err)

	assert.Equal(t, language.French, loader.Default())
	assert.Equal(t, "fr", loader.Match("de").String())
	assert.Equal(t, "fr", loader.Match("").String())
	assert.Equal(t, "en", loader.Match("en-GB").String())
	assert.Equal(t, "es", loader.Match("es").String())

	// a default outside the supported list is still served
	loader, err = NewLocaleLoader(t.TempDir(), "de", "en")
	require.NoError(t, err)
	assert.Equal(t, "de", loader.Match("ja").String())
	assert.Equal(t, "en", loader.Match("en").String())
}

func TestNilBundle(t *testing.T) {
	var b *Bundle
	assert.Equal(t, "x", b.T("id", "x"))
	assert.Zero(t, b.Len())
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	writeMessages(t, dir, "en", "place", `{"place.county":"County"}`)
	writeMessages(t, dir, "en", "stats_var_labels", `{"Count_Person":"Population"}`)
	writeMessages(t, dir, "en", "units", `{}`)

	loader, err := NewLocaleLoader(dir, "en")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(defaultAttrs().html()))
	require.NoError(t, err)

	page, err := NewTopicPageService(Options{}).Bootstrap(context.Background(), doc, loader, language.English)
	require.NoError(t, err)
	assert.Equal(t, "economy", page.Props.Topic)
	require.NotNil(t, page.Translations())

	select {
	case <-page.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("messages were not loaded")
	}
	assert.NoError(t, page.LoadErr())
	assert.Equal(t, "Population", page.Translations().T("Count_Person", "Count_Person"))
}

func TestBootstrap_LoadFailureKeepsFallback(t *testing.T) {
	loader, err := NewLocaleLoader(t.TempDir(), "en")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(defaultAttrs().html()))
	require.NoError(t, err)

	page, err := NewTopicPageService(Options{}).Bootstrap(context.Background(), doc, loader, language.English)
	require.NoError(t, err)

	<-page.Ready()
	assert.Error(t, page.LoadErr())
	assert.Equal(t, "Count_Person", page.Translations().T("Count_Person", "Count_Person"))
}

func TestBootstrap_ParseError(t *testing.T) {
	loader, err := NewLocaleLoader(t.TempDir(), "en")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html></html>"))
	require.NoError(t, err)

	_, err = NewTopicPageService(Options{}).Bootstrap(context.Background(), doc, loader, language.English)
	assert.Error(t, err)
}
