package uploader

import (
	"context"

	"github.com/aleister1102/weeklywrapped/internal/assets"
)

// InlineUploader embeds images as data URIs. Used for previews; it never
// touches the network.
type InlineUploader struct{}

func NewInlineUploader() *InlineUploader { return &InlineUploader{} }

func (InlineUploader) Name() string { return BackendInline }

func (InlineUploader) Upload(_ context.Context, data []byte, _ string) (string, error) {
	return assets.EncodeDataURI("image/png", data), nil
}
