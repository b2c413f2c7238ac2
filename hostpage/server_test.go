package hostpage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer(t *testing.T) {
	srv := httptest.NewServer(NewFSServer(fstest.MapFS{
		"index.html": {Data: []byte(`<script type="text/typescript">import { v } from "./lib.ts"; let x: number = v;</script>`)},
		"lib.ts":     {Data: []byte(`export const v: number = 1;`)},
		"bad.ts":     {Data: []byte(`let a = 1; }`)},
		"style.css":  {Data: []byte(`body { color: red; }`)},
	}))
	defer srv.Close()

	t.Run("page", func(t *testing.T) {
		resp, body := get(t, srv, "/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, body, `<script type="module">import { v } from "data:text/javascript;base64,`)
		assert.Contains(t, body, "let x         = v;")
		modules := decodeModules(t, body)
		require.Len(t, modules, 1)
		assert.Contains(t, modules[0], "export const v         = 1;")
	})

	t.Run("module", func(t *testing.T) {
		resp, body := get(t, srv, "/lib.ts")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/javascript")
		assert.Equal(t, "export const v         = 1;", body)
	})

	t.Run("module without extension", func(t *testing.T) {
		resp, body := get(t, srv, "/lib")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "export const v         = 1;", body)
	})

	t.Run("static file", func(t *testing.T) {
		resp, body := get(t, srv, "/style.css")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "body { color: red; }", body)
	})

	t.Run("missing", func(t *testing.T) {
		resp, _ := get(t, srv, "/missing.ts")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("parse failure", func(t *testing.T) {
		resp, body := get(t, srv, "/bad.ts")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "could not parse")
	})
}
