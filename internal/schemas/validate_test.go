package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_JobDescription(t *testing.T) {
	valid := `{"title":"Backend Engineer","company":"Acme","skills":["Go"],"experience_years":3,"education_level":"bachelor","remote_work":true,"salary_range":null}`
	assert.NoError(t, Validate(JobDescription, valid))

	err := Validate(JobDescription, `{"company":"Acme"}`)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, JobDescription, ve.Schema)
	assert.NotEmpty(t, ve.Errors)

	assert.Error(t, Validate(JobDescription, `{"title":"X","skills":"Go"}`))
	assert.Error(t, Validate(JobDescription, `{"title":"X","experience_years":-2}`))
	assert.Error(t, Validate(JobDescription, `{"title":"X","education_level":"phd"}`))
}

func TestValidate_Resume(t *testing.T) {
	assert.NoError(t, Validate(Resume, `{"skills":["Go","SQL"]}`))
	assert.NoError(t, Validate(Resume, `{"experience":[{"title":"Dev","start_date":"2019-01"}],"education":[{"degree":"BS","graduation_year":"2018"}]}`))
	assert.Error(t, Validate(Resume, `{"summary":"no skills or experience"}`))
	assert.Error(t, Validate(Resume, `[]`))
}

func TestValidate_JobMatch(t *testing.T) {
	assert.NoError(t, Validate(JobMatch, `{"job_id":"a","match_score":75,"match_reasons":["Strong Go"]}`))
	assert.Error(t, Validate(JobMatch, `{"job_id":"a","match_score":175,"match_reasons":["x"]}`))
	assert.Error(t, Validate(JobMatch, `{"job_id":"a","match_score":75,"match_reasons":[]}`))
	assert.Error(t, Validate(JobMatch, `{"job_id":"a","match_reasons":["x"]}`))
}

func TestValidate_MalformedDocument(t *testing.T) {
	assert.Error(t, Validate(JobDescription, `{"title": `))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", `{}`)
	var le *SchemaLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "nope", le.Name)
}
