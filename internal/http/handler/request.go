package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

var errInvalidBody = errors.New("request body must be a JSON object or a form")

// decodeObject reads a JSON object body. Fields of other types are kept so
// callers can decide how strictly to treat them.
func decodeObject(r *http.Request) (map[string]any, error) {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, errInvalidBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errInvalidBody
	}
	if body == nil {
		return nil, errInvalidBody
	}
	return body, nil
}

// decodeFormOrObject accepts a urlencoded form post as well as a JSON object.
// Only the public contact form uses it; repeated form keys keep the first value.
func decodeFormOrObject(r *http.Request) (map[string]any, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/x-www-form-urlencoded" {
		return decodeObject(r)
	}
	if err := r.ParseForm(); err != nil {
		return nil, errInvalidBody
	}
	body := make(map[string]any, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			body[k] = v[0]
		}
	}
	return body, nil
}

// stringField returns body[key] when it is a string and "" otherwise.
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
