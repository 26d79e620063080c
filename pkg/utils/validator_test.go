package utils_test

import (
	"errors"
	"testing"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestValidatorWrapsInvalidInput(t *testing.T) {
	v := utils.NewValidator()

	err := v.Struct(models.NotulenRequest{})
	assert.True(t, errors.Is(err, utils.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Titel")

	assert.NoError(t, v.Struct(models.NotulenRequest{Titel: "ALV", VergaderingDatum: "2025-03-04"}))
}

func TestCustomRules(t *testing.T) {
	v := utils.NewValidator()

	assert.NoError(t, v.Var("image/webp", "supported_image"))
	assert.Error(t, v.Var("application/pdf", "supported_image"))
	assert.NoError(t, v.Var("finalized", "notulen_status"))
	assert.Error(t, v.Var("published", "notulen_status"))
}

func TestNestedAgendaItemsAreValidated(t *testing.T) {
	v := utils.NewValidator()
	req := models.NotulenRequest{
		Titel:            "ALV",
		VergaderingDatum: "2025-03-04",
		AgendaItems:      []models.AgendaItem{{Titel: ""}},
	}
	assert.Error(t, v.Struct(req))
}
