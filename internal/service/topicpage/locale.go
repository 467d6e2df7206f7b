package topicpage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// Bundle holds the translated messages of one locale.
type Bundle struct {
	Locale   language.Tag
	messages map[string]string
}

func NewBundle(locale language.Tag, messages map[string]string) *Bundle {
	return &Bundle{Locale: locale, messages: messages}
}

// T returns the message for id, or fallback when the bundle lacks it.
func (b *Bundle) T(id, fallback string) string {
	if b == nil {
		return fallback
	}
	if msg, ok := b.messages[id]; ok && msg != "" {
		return msg
	}
	return fallback
}

func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.messages)
}

// LocaleLoader reads compiled message files laid out as <dir>/<locale>/<name>.json.
type LocaleLoader struct {
	dir       string
	supported []language.Tag
	matcher   language.Matcher
}

// NewLocaleLoader serves the supported locales from dir. defaultLocale is what
// unmatched requests get; it joins the supported set when missing from it and
// falls back to the first supported locale when empty.
func NewLocaleLoader(dir string, defaultLocale string, supported ...string) (*LocaleLoader, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
		if len(supported) > 0 {
			defaultLocale = supported[0]
		}
	}

	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("language.Parse %q: %w", defaultLocale, err)
	}

	// the matcher falls back to its first tag
	tags := []language.Tag{def}
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("language.Parse %q: %w", s, err)
		}
		if tag != def {
			tags = append(tags, tag)
		}
	}

	return &LocaleLoader{dir: dir, supported: tags, matcher: language.NewMatcher(tags)}, nil
}

// Default is the locale unmatched requests get.
func (l *LocaleLoader) Default() language.Tag {
	return l.supported[0]
}

// Match picks the supported locale closest to an Accept-Language value.
func (l *LocaleLoader) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.Default()
	}
	_, idx, _ := l.matcher.Match(tags...)
	return l.supported[idx]
}

// Load reads the named message files of locale concurrently and merges them.
// Later names win on duplicate ids.
func (l *LocaleLoader) Load(ctx context.Context, locale language.Tag, names ...string) (*Bundle, error) {
	parts := make([]map[string]string, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			path := filepath.Join(l.dir, locale.String(), name+".json")
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("os.ReadFile: %w", err)
			}
			msgs, err := decodeMessages(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			parts[i] = msgs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]string)
	for _, part := range parts {
		for k, v := range part {
			merged[k] = v
		}
	}
	return NewBundle(locale, merged), nil
}

// decodeMessages accepts plain {"id": "text"} files and compiled message
// ASTs where a message is a list of {"type": 0, "value": "text"} nodes.
func decodeMessages(data []byte) (map[string]string, error) {
	raw := make(map[string]interface{})
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	msgs := make(map[string]string, len(raw))
	for id, v := range raw {
		switch val := v.(type) {
		case string:
			msgs[id] = val
		case []interface{}:
			var sb strings.Builder
			for _, node := range val {
				n, ok := node.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("message %s: unexpected node %v", id, node)
				}
				if text, ok := n["value"].(string); ok {
					sb.WriteString(text)
				}
			}
			msgs[id] = sb.String()
		default:
			return nil, fmt.Errorf("message %s: unexpected value %v", id, v)
		}
	}
	return msgs, nil
}
