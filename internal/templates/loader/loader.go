package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"

	pkgtemplates "github.com/goliatone/go-formbuilder/pkg/templates"
)

type opener func(ctx context.Context, location string) (io.ReadCloser, error)

// Loader implements pkgtemplates.Loader with one opener per source kind.
// Construction helpers live in the top-level formbuilder package.
type Loader struct {
	openers map[pkgtemplates.SourceKind]opener
	http    *http.Client
	limit   int64
}

var _ pkgtemplates.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. URL sources fail unless
// a client or the HTTP fallback was configured.
func New(options pkgtemplates.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var client *http.Client
	if options.HTTPClient != nil {
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		client = &clone
	} else if options.AllowHTTPFallback {
		client = &http.Client{Timeout: timeout}
	}

	limit := options.MaxDocumentSize
	if limit <= 0 {
		limit = pkgtemplates.DefaultMaxDocumentSize
	}

	return &Loader{
		openers: map[pkgtemplates.SourceKind]opener{
			pkgtemplates.SourceKindFile: openFile,
			pkgtemplates.SourceKindFS:   openFS(options.FileSystem),
			pkgtemplates.SourceKindURL:  openHTTP(client, timeout),
		},
		http:  client,
		limit: limit,
	}
}

// Load fetches the template document behind src.
func (l *Loader) Load(ctx context.Context, src pkgtemplates.Source) (pkgtemplates.Document, error) {
	if src == nil {
		return pkgtemplates.Document{}, fmt.Errorf("templates loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgtemplates.Document{}, err
	}

	open, ok := l.openers[src.Kind()]
	if !ok {
		return pkgtemplates.Document{}, fmt.Errorf("templates loader: unsupported source kind %q", src.Kind())
	}
	rc, err := open(ctx, src.Location())
	if err != nil {
		return pkgtemplates.Document{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, l.limit+1))
	if err != nil {
		return pkgtemplates.Document{}, fmt.Errorf("templates loader: read %s: %w", src.Location(), err)
	}
	if int64(len(data)) > l.limit {
		return pkgtemplates.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", pkgtemplates.ErrDocumentTooLarge, src.Location(), l.limit)
	}
	return pkgtemplates.NewDocument(src, data)
}
