package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name: "minimal valid task",
			task: Task{Name: "x", UserID: "u", ListID: "l"},
		},
		{
			name: "empty priority and status are filled later, not rejected",
			task: Task{Name: "x", UserID: "u", ListID: "l", Priority: "", Status: ""},
		},
		{
			name:    "missing name",
			task:    Task{UserID: "u", ListID: "l"},
			wantErr: true,
		},
		{
			name:    "whitespace name",
			task:    Task{Name: "   ", UserID: "u", ListID: "l"},
			wantErr: true,
		},
		{
			name:    "missing user",
			task:    Task{Name: "x", ListID: "l"},
			wantErr: true,
		},
		{
			name:    "missing list",
			task:    Task{Name: "x", UserID: "u"},
			wantErr: true,
		},
		{
			name:    "negative position",
			task:    Task{Name: "x", UserID: "u", ListID: "l", Position: -1},
			wantErr: true,
		},
		{
			name:    "unknown priority",
			task:    Task{Name: "x", UserID: "u", ListID: "l", Priority: "Critical"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			task:    Task{Name: "x", UserID: "u", ListID: "l", Status: "pending"},
			wantErr: true,
		},
		{
			name:    "recurring without pattern",
			task:    Task{Name: "x", UserID: "u", ListID: "l", IsRecurring: true},
			wantErr: true,
		},
		{
			name: "recurring with valid pattern",
			task: Task{
				Name: "x", UserID: "u", ListID: "l", IsRecurring: true,
				RecurringPattern: &RecurringPattern{Type: RecurDaily, Interval: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecurringPatternValidate(t *testing.T) {
	tests := []struct {
		name    string
		pattern RecurringPattern
		wantErr bool
	}{
		{name: "daily", pattern: RecurringPattern{Type: RecurDaily}},
		{name: "custom", pattern: RecurringPattern{Type: RecurCustom}},
		{name: "unknown type", pattern: RecurringPattern{Type: "fortnightly"}, wantErr: true},
		{name: "weekly with days", pattern: RecurringPattern{Type: RecurWeekly, DaysOfWeek: []string{"monday"}}},
		{name: "weekly without days", pattern: RecurringPattern{Type: RecurWeekly}, wantErr: true},
		{name: "monthly day 15", pattern: RecurringPattern{Type: RecurMonthly, DayOfMonth: 15}},
		{name: "monthly day 0", pattern: RecurringPattern{Type: RecurMonthly}, wantErr: true},
		{name: "monthly day 32", pattern: RecurringPattern{Type: RecurMonthly, DayOfMonth: 32}, wantErr: true},
		{name: "yearly month 6", pattern: RecurringPattern{Type: RecurYearly, MonthOfYear: 6}},
		{name: "yearly month 13", pattern: RecurringPattern{Type: RecurYearly, MonthOfYear: 13}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecurringPatternJSONPassthrough(t *testing.T) {
	in := []byte(`{"type":"weekly","interval":2,"daysOfWeek":["monday"],"timezone":"UTC","nested":{"a":1}}`)

	var p RecurringPattern
	require.NoError(t, json.Unmarshal(in, &p))
	assert.Equal(t, RecurWeekly, p.Type)
	assert.Equal(t, 2, p.Interval)
	assert.Equal(t, []string{"monday"}, p.DaysOfWeek)

	// Unknown keys land in Extra and survive re-encoding.
	require.Contains(t, p.Extra, "timezone")
	require.Contains(t, p.Extra, "nested")

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.JSONEq(t, string(in), string(out))
}

func TestRecurringPatternJSONOmitsZeroFields(t *testing.T) {
	p := RecurringPattern{Type: RecurDaily}
	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"daily"}`, string(out))
}

func TestValidEnumHelpers(t *testing.T) {
	assert.True(t, ValidPriority(PriorityHigh))
	assert.False(t, ValidPriority("urgent"))
	assert.True(t, ValidStatus(StatusArchived))
	assert.False(t, ValidStatus("paused"))
	assert.True(t, ValidReminderMethod(ReminderSMS))
	assert.False(t, ValidReminderMethod("fax"))
	assert.True(t, ValidHistoryAction(ActionCompleted))
	assert.False(t, ValidHistoryAction("renamed"))
}
