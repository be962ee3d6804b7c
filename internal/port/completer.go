package port

import "context"

// VisionCompleter abstracts the vision-capable model endpoint that turns a
// document image into raw structured text.
type VisionCompleter interface {
	CompleteImage(ctx context.Context, image []byte, contentType, prompt string) (string, error)
}

// TextCompleter abstracts the text-completion endpoint used for translation
// and for answering questions over a ledger snapshot.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
