package receipt

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

var summary = []domain.SummaryItem{
	{Category: domain.CategoryPresidencial, CategoryLabel: "Presidencial", CandidateName: "Rosa Huamán Quispe", Resolved: true},
	{Category: domain.CategoryDistrital, CategoryLabel: "Distrital", CandidateName: domain.UnknownCandidateLabel},
	{Category: domain.CategoryRegional, CategoryLabel: "Regional", CandidateName: "Ana Gutiérrez Ramos", Resolved: true},
}

func TestText(t *testing.T) {
	got := Text(domain.Voter{DNI: "45678912"}, summary)

	assert.Equal(t, "ELECCIONES|DNI:*****912|Presidencial:Rosa Huamán Quispe|Distrital:Candidato desconocido|Regional:Ana Gutiérrez Ramos", got)
	assert.NotContains(t, got, "45678912")
}

func TestQRRenderer_Render(t *testing.T) {
	data, err := NewQRRenderer(0).Render(domain.Voter{DNI: "45678912"}, summary)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, defaultSize, img.Bounds().Dx())
}

func TestQRRenderer_RequiresSummary(t *testing.T) {
	_, err := NewQRRenderer(128).Render(domain.Voter{DNI: "45678912"}, nil)
	assert.ErrorIs(t, err, domain.ErrBallotIncomplete)
}
