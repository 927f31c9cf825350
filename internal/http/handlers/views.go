package handlers

import (
	"errors"

	"github.com/gofiber/template/html/v2"
)

// Views loads the page templates from dir with the helpers the partials use.
func Views(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("dict", dict)
	return engine
}

// dict builds a map from alternating keys and values so a partial can take more
// than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
