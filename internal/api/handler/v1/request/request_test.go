package request

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aisclub/clubevents/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "ada@club.test",
		Password:        "Secret123!",
		ConfirmPassword: "Secret123!",
		Name:            "Ada",
	}

	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr error
		anyErr  bool
	}{
		{name: "valid", mutate: func(r *SignupRequest) {}},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "ada" }, anyErr: true},
		{name: "no symbol", mutate: func(r *SignupRequest) { r.Password, r.ConfirmPassword = "Secret123", "Secret123" }, wantErr: errInvalidPassword},
		{name: "too short", mutate: func(r *SignupRequest) { r.Password, r.ConfirmPassword = "S3c!", "S3c!" }, wantErr: errInvalidPassword},
		{name: "mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "Secret123?" }, wantErr: errConfirmPasswordMismatch},
		{name: "missing name", mutate: func(r *SignupRequest) { r.Name = "" }, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateEventRequest(t *testing.T) {
	at := time.Date(2030, 1, 1, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))
	zero := decimal.Zero
	huge := decimal.NewFromInt(10000)
	precise := decimal.RequireFromString("1.555")

	req := CreateEventRequest{Title: "Hack night", Category: domain.CategoryLearn, Datetime: &at}
	assert.NoError(t, req.Validate())
	event := req.ToDomain()
	assert.Equal(t, time.UTC, event.Datetime.Location())
	assert.True(t, event.Datetime.Equal(at))

	bad := []CreateEventRequest{
		{Title: "x"},
		{Title: "x", Datetime: &at, Category: "learn"},
		{Title: "x", Datetime: &at, EventDuration: &zero},
		{Title: "x", Datetime: &at, EventDuration: &huge},
		{Title: "x", Datetime: &at, EventDuration: &precise},
		{Title: "x", Datetime: &at, TemplateID: "not-a-uuid"},
		{Title: "x", Datetime: &at, PhotoURLs: []string{""}},
	}
	for i, r := range bad {
		assert.Error(t, r.Validate(), i)
	}
}

func TestUpdateEventRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, (&UpdateEventRequest{}).Validate(), errEmptyUpdate)

	title := "Renamed"
	assert.NoError(t, (&UpdateEventRequest{Title: &title}).Validate())

	empty := ""
	assert.Error(t, (&UpdateEventRequest{Title: &empty}).Validate())
}

func TestListEventsQuery_Validate(t *testing.T) {
	q := ListEventsQuery{}
	assert.NoError(t, q.Validate())
	assert.Equal(t, domain.CategoryAll, q.Category)

	q = ListEventsQuery{Category: domain.CategoryServe}
	assert.NoError(t, q.Validate())

	q = ListEventsQuery{Category: "Parties"}
	assert.Error(t, q.Validate())
}
