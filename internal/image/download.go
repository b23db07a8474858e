package imagepkg

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/util"
)

const DefaultRetrievalTimeout = 12 * time.Second

// Retriever copies card artwork into the local art path for the card.
type Retriever struct {
	Paths   Paths
	Timeout time.Duration
}

func NewRetriever(paths Paths, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = DefaultRetrievalTimeout
	}
	return &Retriever{Paths: paths, Timeout: timeout}
}

// Retrieve copies the artwork at rawURL to Paths.CardArt(cardID) and returns
// that path. file:// URLs and bare paths are read from disk; http and https
// URLs are fetched. The bytes are written unchanged.
func (r *Retriever) Retrieve(ctx context.Context, rawURL string, cardID int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &RetrievalError{Kind: TransferFailed, URL: rawURL, Err: err}
	}

	var content []byte
	switch u.Scheme {
	case "", "file":
		path := localPath(u)
		log.Printf("reading card %d art from local file %s", cardID, path)
		content, err = os.ReadFile(path)
		if err != nil {
			return "", &RetrievalError{Kind: NotFound, URL: rawURL, Err: err}
		}
	case "http", "https":
		log.Printf("fetching card %d art from %s", cardID, u.Redacted())
		content, err = util.GetBytes(ctx, u.String(), r.Timeout)
		if err != nil {
			log.Printf("could not get image %s: %v", u.Redacted(), err)
			return "", &RetrievalError{Kind: TransferFailed, URL: rawURL, Err: err}
		}
	default:
		return "", &RetrievalError{Kind: TransferFailed, URL: rawURL,
			Err: errors.New("unsupported scheme " + u.Scheme)}
	}

	dest := r.Paths.CardArt(cardID)
	if err := util.WriteFileAtomic(dest, content); err != nil {
		return "", apperr.NewFileIO("write card art", err)
	}
	return dest, nil
}

// localPath turns file:///abs/x.png into /abs/x.png. A host part, as in
// file://assets/x.png, is kept as the first path element of a relative path.
func localPath(u *url.URL) string {
	if u.Scheme == "" {
		return u.Path
	}
	if u.Host != "" && u.Host != "localhost" {
		return filepath.Join(u.Host, filepath.FromSlash(u.Path))
	}
	return filepath.FromSlash(u.Path)
}
