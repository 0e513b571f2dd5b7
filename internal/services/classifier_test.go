package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	resp := "```json\n" + `{
		"title": " Senior Go Engineer ",
		"client_name": "Acme Corp",
		"experience_required": 5,
		"tech_required": ["Go", "MongoDB"],
		"location": "Remote",
		"visa_required": null,
		"start_date": "2026-09-01",
		"job_type": "Contract",
		"jd_summary": "Backend role",
		"additional_notes": null
	}` + "\n```"

	got, err := parseClassification(resp)
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", got.Title)
	assert.Equal(t, "Acme Corp", got.ClientName)
	assert.Equal(t, 5.0, got.ExperienceRequired)
	assert.Equal(t, []string{"Go", "MongoDB"}, got.TechRequired)
	assert.Equal(t, "Remote", got.Location)
	assert.Empty(t, got.VisaRequired)
	assert.Equal(t, "2026-09-01", got.StartDate)
	assert.Equal(t, "Contract", got.JobType)
}

func TestParseClassificationWithoutFence(t *testing.T) {
	got, err := parseClassification(`{"title": "Data Engineer", "tech_required": []}`)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", got.Title)
}

func TestParseClassificationDefaults(t *testing.T) {
	got, err := parseClassification(`{"title": "  ", "client_name": null}`)
	require.NoError(t, err)

	assert.Equal(t, "Untitled Position", got.Title)
	assert.NotNil(t, got.TechRequired)
	assert.Empty(t, got.TechRequired)
	assert.Zero(t, got.ExperienceRequired)
}

func TestParseClassificationRejectsNonJSON(t *testing.T) {
	_, err := parseClassification("Sure! Here is the extracted data: title is Engineer")
	require.ErrorIs(t, err, ErrUnusableResponse)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestValidStartDate(t *testing.T) {
	assert.True(t, validStartDate("2026-09-01"))
	assert.True(t, validStartDate("2026-09-01T00:00:00Z"))
	assert.False(t, validStartDate("September 1st"))
	assert.False(t, validStartDate("01/09/2026"))
}
