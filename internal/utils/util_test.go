package util_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", 1, 15},
		{"?page=3&per_page=20", 3, 20},
		{"?page=0&per_page=-4", 1, 15},
		{"?per_page=500", 1, 100},
		{"?page=abc", 1, 15},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			p := util.ParsePagination(httptest.NewRequest("GET", "/rsbsa-enrollments"+tc.query, nil))
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.perPage, p.PerPage)
		})
	}
}

func TestBuildMeta(t *testing.T) {
	p := util.Params{Page: 2, PerPage: 15}
	meta := util.BuildMeta(31, p)
	assert.Equal(t, 3, meta.LastPage)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	assert.Equal(t, 15, p.Offset())

	empty := util.BuildMeta(0, util.Params{Page: 1, PerPage: 15})
	assert.Equal(t, 1, empty.LastPage)
	assert.False(t, empty.HasNext)
}

func TestLocalDateJSON(t *testing.T) {
	var payload struct {
		BirthDate util.LocalDate `json:"birth_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"birth_date":"1990-05-17"}`), &payload))
	assert.Equal(t, "1990-05-17", payload.BirthDate.String())
	assert.Equal(t, util.Manila().String(), payload.BirthDate.Location().String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"birth_date":"1990-05-17"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"birth_date":"17/05/1990"}`), &payload))
}

func TestLocalDateScan(t *testing.T) {
	var d util.LocalDate
	require.NoError(t, d.Scan(time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2001-02-03", d.String())

	require.NoError(t, d.Scan("2004-06-07T00:00:00Z"))
	assert.Equal(t, "2004-06-07", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestLocalDateAgeOn(t *testing.T) {
	born, err := util.ParseLocalDate("2000-10-20")
	require.NoError(t, err)

	before := time.Date(2026, 10, 19, 12, 0, 0, 0, util.Manila())
	after := time.Date(2026, 10, 21, 12, 0, 0, 0, util.Manila())
	assert.Equal(t, 25, born.AgeOn(before))
	assert.Equal(t, 26, born.AgeOn(after))
}

type parcelInput struct {
	Barangay string  `json:"barangay" validate:"required"`
	FarmArea float64 `json:"farm_area" validate:"gt=0"`
}

type syncInput struct {
	Parcels []parcelInput `json:"parcels" validate:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	fields, err := util.ValidateStruct(syncInput{Parcels: []parcelInput{{Barangay: "Poblacion", FarmArea: 1}}})
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = util.ValidateStruct(syncInput{Parcels: []parcelInput{
		{Barangay: "Poblacion", FarmArea: 1},
		{FarmArea: 0},
	}})
	require.NoError(t, err)
	assert.Contains(t, fields, "parcels.1.barangay")
	assert.Contains(t, fields, "parcels.1.farm_area")
	assert.NotContains(t, fields, "parcels.0.barangay")

	fields, err = util.ValidateStruct(syncInput{})
	require.NoError(t, err)
	assert.Contains(t, fields, "parcels")
}
