package memory

import (
	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// SeedCandidates mirrors the seed migration so the memory store can serve a
// full ballot during local development.
func SeedCandidates() []domain.Candidate {
	party := func(s string) *string { return &s }
	return []domain.Candidate{
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a01"), Name: "Rosa Huamán Quispe", PartyName: "Frente Andino", PartyDescription: party("Coalición de gremios del sur"), Category: domain.CategoryPresidencial},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a02"), Name: "Carlos Mendoza Rivas", PartyName: "Partido Costa Unida", Category: domain.CategoryPresidencial},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a03"), Name: "Lucía Paredes Soto", PartyName: "Renovación Ciudadana", Category: domain.CategoryPresidencial},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a04"), Name: "Jorge Salazar Núñez", PartyName: "Frente Andino", Category: domain.CategoryDistrital},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a05"), Name: "Elena Castro Vargas", PartyName: "Vecinos Primero", Category: domain.CategoryDistrital},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a06"), Name: "Miguel Torres Flores", PartyName: "Partido Costa Unida", Category: domain.CategoryRegional},
		{ID: uuid.MustParse("5b0f3c2e-1a44-4c0e-9f3a-0c1d2e3f4a07"), Name: "Ana Gutiérrez Ramos", PartyName: "Renovación Ciudadana", Category: domain.CategoryRegional},
	}
}
