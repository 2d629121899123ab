package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repair-desk/internal/domain"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

func TestCreateTicket(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")

	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID:    device.ID,
		ReportedBy:  "Alice",
		Description: "won't boot",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Contains(t, ticket.TicketNumber, "RPT-")
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, device.ID, ticket.DeviceID)

	assignment, err := fixture.assignments.GetByID(ctx, ticket.AssignmentID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", assignment.Email)
	assert.Equal(t, "Jane", assignment.FirstName)
	assert.Equal(t, "Doe", assignment.LastName)
}

func TestCreateTicketValidation(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")

	tests := []struct {
		name  string
		input TicketCreateInput
		code  string
	}{
		{
			name:  "empty reporter",
			input: TicketCreateInput{DeviceID: device.ID, ReportedBy: "  ", Description: "broken"},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "empty description",
			input: TicketCreateInput{DeviceID: device.ID, ReportedBy: "Alice", Description: ""},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "unknown device",
			input: TicketCreateInput{DeviceID: "missing", ReportedBy: "Alice", Description: "broken"},
			code:  "NOT_FOUND",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.ticketService.CreateTicket(ctx, technician, tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tc.code))
		})
	}
}

func TestAssignmentReusedAcrossTickets(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")

	first, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "screen flicker",
	})
	require.NoError(t, err)

	second, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Bob", Description: "keyboard dead",
	})
	require.NoError(t, err)

	assert.Equal(t, first.AssignmentID, second.AssignmentID)
	assert.Len(t, fixture.assignments.records, 1)
}

func TestRecordPartUsage(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	usage, err := fixture.ticketService.RecordPartUsage(ctx, ticket.ID, "PSU", 1, 40.00)
	require.NoError(t, err)
	assert.Equal(t, 40.00, usage.LineCost())

	// Recording parts never transitions the ticket.
	reloaded, err := fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, reloaded.Status)
}

func TestRecordPartUsageValidation(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		ticketID string
		partName string
		quantity int
		unitCost float64
		code     string
	}{
		{"zero quantity", ticket.ID, "PSU", 0, 40, "VALIDATION_FAILED"},
		{"negative quantity", ticket.ID, "PSU", -2, 40, "VALIDATION_FAILED"},
		{"negative cost", ticket.ID, "PSU", 1, -0.01, "VALIDATION_FAILED"},
		{"empty part name", ticket.ID, "   ", 1, 40, "VALIDATION_FAILED"},
		{"unknown ticket", "missing", "PSU", 1, 40, "NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.ticketService.RecordPartUsage(ctx, tc.ticketID, tc.partName, tc.quantity, tc.unitCost)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tc.code))
		})
	}

	// No partial writes from rejected entries.
	parts, err := fixture.partsService.ListUsage(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestFinishPartsRecordingIsPureNavigation(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	_, err = fixture.ticketService.FinishPartsRecording(ctx, ticket.ID)
	require.NoError(t, err)
	_, err = fixture.ticketService.MarkNoPartsNeeded(ctx, ticket.ID)
	require.NoError(t, err)

	reloaded, err := fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, reloaded.Status, "navigation signals must not complete the ticket")

	_, err = fixture.ticketService.FinishPartsRecording(ctx, "missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestSubmitFeedbackCompletesTicket(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	feedback, err := fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{
		Comment: "replaced PSU",
		Status:  "Fixed",
	})
	require.NoError(t, err)
	assert.NotNil(t, feedback.DateSolved)

	reloaded, err := fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed())
}

func TestSubmitFeedbackValidation(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	_, err = fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{Comment: "", Status: "Fixed"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{Comment: "done", Status: "  "})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = fixture.ticketService.SubmitFeedback(ctx, "missing", FeedbackInput{Comment: "done", Status: "Fixed"})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	reloaded, err := fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, reloaded.Status)
}

func TestSubmitFeedbackTwiceUpdatesInPlace(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	first, err := fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{
		Comment: "replaced PSU", Status: "Fixed",
	})
	require.NoError(t, err)

	second, err := fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{
		Comment: "replaced PSU and cleaned fans", Status: "Resolved",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "resubmission must update, not insert")
	assert.Len(t, fixture.feedback.byTicket, 1)

	stored, err := fixture.feedback.GetByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resolved", stored.Status)
	assert.Equal(t, "replaced PSU and cleaned fans", stored.Comment)
}

func TestFeedbackIsolatedBetweenTicketsSharingAssignment(t *testing.T) {
	// Two tickets handled by the same technician share one assignment row.
	// Feedback is keyed by ticket, so completing one must not complete the
	// other.
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")

	first, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "screen flicker",
	})
	require.NoError(t, err)
	second, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Bob", Description: "keyboard dead",
	})
	require.NoError(t, err)
	require.Equal(t, first.AssignmentID, second.AssignmentID)

	_, err = fixture.ticketService.SubmitFeedback(ctx, first.ID, FeedbackInput{
		Comment: "new panel", Status: "Fixed",
	})
	require.NoError(t, err)

	firstReloaded, err := fixture.tickets.GetByID(ctx, first.ID)
	require.NoError(t, err)
	secondReloaded, err := fixture.tickets.GetByID(ctx, second.ID)
	require.NoError(t, err)

	assert.True(t, firstReloaded.Completed())
	assert.Equal(t, domain.TicketStatusPending, secondReloaded.Status)
}

func TestGetTicketDetail(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")
	device := fixture.device("SN-100")
	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)

	_, err = fixture.ticketService.RecordPartUsage(ctx, ticket.ID, "PSU", 1, 40.00)
	require.NoError(t, err)
	_, err = fixture.ticketService.RecordPartUsage(ctx, ticket.ID, "Fan", 2, 7.50)
	require.NoError(t, err)

	detail, err := fixture.ticketService.GetTicketDetail(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-100", detail.Device.SerialNumber)
	assert.Equal(t, "jane@example.com", detail.Assignment.Email)
	assert.Len(t, detail.Parts, 2)
	assert.InDelta(t, 55.00, detail.TotalCost, 1e-9)
	assert.Nil(t, detail.Feedback)

	_, err = fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{
		Comment: "replaced PSU", Status: "Fixed",
	})
	require.NoError(t, err)

	detail, err = fixture.ticketService.GetTicketDetail(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Feedback)
	assert.Equal(t, "Fixed", detail.Feedback.Status)
}

func TestRepairWorkflowScenario(t *testing.T) {
	fixture := newWorkflowFixture()
	ctx := context.Background()
	technician := fixture.technician("Jane Doe", "jane@example.com")

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	device, err := fixture.deviceService.Register(ctx, DeviceRegisterInput{
		SerialNumber: "SN-001",
		DeviceType:   "laptop",
		Model:        "X1",
		Location:     "HQ",
		OS:           "Win11",
		IssuedAt:     &issued,
	})
	require.NoError(t, err)

	ticket, err := fixture.ticketService.CreateTicket(ctx, technician, TicketCreateInput{
		DeviceID: device.ID, ReportedBy: "Alice", Description: "won't boot",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)

	total, err := fixture.partsService.TotalCost(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = fixture.ticketService.RecordPartUsage(ctx, ticket.ID, "PSU", 1, 40.00)
	require.NoError(t, err)

	total, err = fixture.partsService.TotalCost(ctx, ticket.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40.00, total, 1e-9)

	reloaded, err := fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, reloaded.Status)

	_, err = fixture.ticketService.SubmitFeedback(ctx, ticket.ID, FeedbackInput{
		Comment: "replaced PSU", Status: "Fixed",
	})
	require.NoError(t, err)

	reloaded, err = fixture.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed())

	total, err = fixture.partsService.TotalCost(ctx, ticket.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40.00, total, 1e-9, "completion must not touch the ledger")
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, canTransition(domain.TicketStatusPending, domain.TicketStatusCompleted))
	assert.False(t, canTransition(domain.TicketStatusCompleted, domain.TicketStatusPending))
	assert.False(t, canTransition(domain.TicketStatusCompleted, domain.TicketStatusCompleted))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"", "", ""},
	}
	for _, tc := range tests {
		first, last := splitName(tc.full)
		assert.Equal(t, tc.first, first)
		assert.Equal(t, tc.last, last)
	}
}
