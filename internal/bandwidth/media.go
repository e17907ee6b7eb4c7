package bandwidth

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// DownloadMedia fetches a stored media object by name. The caller must
// close the returned body.
func (c *Client) DownloadMedia(ctx context.Context, name string) (contentType string, body io.ReadCloser, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL("/media/"+url.PathEscape(name)), nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", nil, err
	}
	return resp.Header.Get("Content-Type"), resp.Body, nil
}

// UploadMedia stores a media object under the given name and returns its
// provider storage URL.
func (c *Client) UploadMedia(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	target := c.userURL("/media/" + url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, r)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return target, nil
}
