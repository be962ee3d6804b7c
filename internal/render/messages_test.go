package render_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripdesk/internal/domain"
	"tripdesk/internal/extract"
	"tripdesk/internal/render"
)

func TestMessageFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "decode failure",
			err:  &extract.DecodeError{Raw: "not json"},
			want: render.MsgDecodeFailed,
		},
		{
			name: "wrapped decode failure",
			err:  fmt.Errorf("pipeline: %w", &extract.DecodeError{Raw: "x"}),
			want: render.MsgDecodeFailed,
		},
		{
			name: "no variant matched",
			err:  domain.ErrNoVariantMatched,
			want: render.MsgNoVariantMatched,
		},
		{
			name: "missing identifier",
			err:  fmt.Errorf("Ticket record has no TicketID: %w", domain.ErrMissingIdentifier),
			want: render.MsgMissingIdentifier,
		},
		{
			name: "translation failure",
			err:  fmt.Errorf("%w: variants differ", domain.ErrTranslationFailed),
			want: render.MsgTranslationFailed,
		},
		{
			name: "anything else",
			err:  errors.New("socket closed"),
			want: render.MsgProcessingFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.MessageFor(tt.err))
		})
	}
}
