package receipt

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

const defaultSize = 256

var _ ports.ReceiptRenderer = (*QRRenderer)(nil)

// QRRenderer encodes a completed ballot summary as a PNG QR code.
type QRRenderer struct {
	size int
}

func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = defaultSize
	}
	return &QRRenderer{size: size}
}

func (r *QRRenderer) Render(voter domain.Voter, summary []domain.SummaryItem) ([]byte, error) {
	if len(summary) == 0 {
		return nil, domain.ErrBallotIncomplete
	}
	png, err := qrcode.Encode(Text(voter, summary), qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}
	return png, nil
}

// Text is the receipt payload. Only the last DNI digits are included.
func Text(voter domain.Voter, summary []domain.SummaryItem) string {
	var b strings.Builder
	b.WriteString("ELECCIONES|DNI:")
	b.WriteString(domain.MaskDNI(voter.DNI))
	for _, item := range summary {
		fmt.Fprintf(&b, "|%s:%s", item.CategoryLabel, item.CandidateName)
	}
	return b.String()
}
