package hostpage

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Fetcher loads the source text behind a URL.
type Fetcher interface {
	Fetch(u *url.URL) ([]byte, error)
}

// HTTPFetcher fetches over the network.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(u *url.URL) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	return body, nil
}

// FSFetcher resolves URL paths inside a file system and ignores scheme and
// host. It serves pages rewritten offline and by Server.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(u *url.URL) ([]byte, error) {
	name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if name == "" {
		name = "."
	}
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	return data, nil
}
