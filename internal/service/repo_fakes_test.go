package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/repository"
)

// In-memory repository fakes mirroring the Postgres implementations,
// including pgx.ErrNoRows semantics and the feedback/ticket coupling of
// FeedbackRepository.UpsertForTicket.

type idGen struct {
	prefix string
	next   int
}

func (g *idGen) newID() string {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

type fakeTechnicianRepo struct {
	ids     idGen
	records map[string]*domain.Technician
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{ids: idGen{prefix: "tech"}, records: map[string]*domain.Technician{}}
}

func (r *fakeTechnicianRepo) Create(_ context.Context, technician *domain.Technician) error {
	technician.ID = r.ids.newID()
	technician.CreatedAt = time.Now()
	stored := *technician
	r.records[technician.ID] = &stored
	return nil
}

func (r *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	technician, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *technician
	return &copied, nil
}

func (r *fakeTechnicianRepo) GetByEmail(_ context.Context, email string) (*domain.Technician, error) {
	for _, technician := range r.records {
		if technician.Email == email {
			copied := *technician
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeDeviceRepo struct {
	ids     idGen
	records map[string]*domain.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{ids: idGen{prefix: "dev"}, records: map[string]*domain.Device{}}
}

func (r *fakeDeviceRepo) Create(_ context.Context, device *domain.Device) error {
	for _, existing := range r.records {
		if existing.SerialNumber == device.SerialNumber {
			return fmt.Errorf("duplicate serial %s", device.SerialNumber)
		}
	}
	device.ID = r.ids.newID()
	device.CreatedAt = time.Now()
	stored := *device
	r.records[device.ID] = &stored
	return nil
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, id string) (*domain.Device, error) {
	device, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *device
	return &copied, nil
}

func (r *fakeDeviceRepo) GetBySerial(_ context.Context, serial string) (*domain.Device, error) {
	for _, device := range r.records {
		if device.SerialNumber == serial {
			copied := *device
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAssignmentRepo struct {
	ids     idGen
	records map[string]*domain.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{ids: idGen{prefix: "asg"}, records: map[string]*domain.Assignment{}}
}

func (r *fakeAssignmentRepo) Upsert(_ context.Context, assignment *domain.Assignment) error {
	for _, existing := range r.records {
		if existing.Email == assignment.Email {
			*assignment = *existing
			return nil
		}
	}
	assignment.ID = r.ids.newID()
	assignment.CreatedAt = time.Now()
	stored := *assignment
	r.records[assignment.ID] = &stored
	return nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string) (*domain.Assignment, error) {
	assignment, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *assignment
	return &copied, nil
}

func (r *fakeAssignmentRepo) GetByEmail(_ context.Context, email string) (*domain.Assignment, error) {
	for _, assignment := range r.records {
		if assignment.Email == email {
			copied := *assignment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	ids     idGen
	order   []string
	records map[string]*domain.Ticket

	devices     *fakeDeviceRepo
	assignments *fakeAssignmentRepo
	feedback    *fakeFeedbackRepo
}

func newFakeTicketRepo(devices *fakeDeviceRepo, assignments *fakeAssignmentRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		ids:         idGen{prefix: "tkt"},
		records:     map[string]*domain.Ticket{},
		devices:     devices,
		assignments: assignments,
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.ids.newID()
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.records[ticket.ID] = &stored
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	for _, ticket := range r.records {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) ListRecent(ctx context.Context, limit int, status *domain.TicketStatus) ([]repository.TicketOverview, error) {
	if limit <= 0 {
		limit = 20
	}
	var result []repository.TicketOverview
	for i := len(r.order) - 1; i >= 0 && len(result) < limit; i-- {
		ticket := r.records[r.order[i]]
		if status != nil && ticket.Status != *status {
			continue
		}
		result = append(result, r.overview(ctx, ticket))
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByAssignmentEmail(ctx context.Context, email string, limit int) ([]repository.TicketOverview, error) {
	if limit <= 0 {
		limit = 20
	}
	var result []repository.TicketOverview
	for i := len(r.order) - 1; i >= 0 && len(result) < limit; i-- {
		ticket := r.records[r.order[i]]
		assignment, err := r.assignments.GetByID(ctx, ticket.AssignmentID)
		if err != nil || assignment.Email != email {
			continue
		}
		result = append(result, r.overview(ctx, ticket))
	}
	return result, nil
}

func (r *fakeTicketRepo) overview(ctx context.Context, ticket *domain.Ticket) repository.TicketOverview {
	item := repository.TicketOverview{Ticket: *ticket}
	if device, err := r.devices.GetByID(ctx, ticket.DeviceID); err == nil {
		item.SerialNumber = device.SerialNumber
		item.Model = device.Model
		item.Location = device.Location
	}
	if assignment, err := r.assignments.GetByID(ctx, ticket.AssignmentID); err == nil {
		item.FirstName = assignment.FirstName
		item.LastName = assignment.LastName
		item.TechEmail = assignment.Email
	}
	if r.feedback != nil {
		if fb, err := r.feedback.GetByTicket(ctx, ticket.ID); err == nil {
			item.FeedbackStatus = &fb.Status
			item.DateSolved = fb.DateSolved
		}
	}
	return item
}

type fakePartUsageRepo struct {
	ids     idGen
	records []domain.PartUsage
}

func newFakePartUsageRepo() *fakePartUsageRepo {
	return &fakePartUsageRepo{ids: idGen{prefix: "prt"}}
}

func (r *fakePartUsageRepo) Create(_ context.Context, usage *domain.PartUsage) error {
	usage.ID = r.ids.newID()
	usage.RecordedAt = time.Now()
	r.records = append(r.records, *usage)
	return nil
}

func (r *fakePartUsageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.PartUsage, error) {
	// Insertion order ascending, so most recent first means reversed.
	var result []domain.PartUsage
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].TicketID == ticketID {
			result = append(result, r.records[i])
		}
	}
	return result, nil
}

func (r *fakePartUsageRepo) TotalCost(_ context.Context, ticketID string) (float64, error) {
	var total float64
	for _, usage := range r.records {
		if usage.TicketID == ticketID {
			total += float64(usage.Quantity) * usage.UnitCost
		}
	}
	return total, nil
}

type fakeFeedbackRepo struct {
	ids      idGen
	byTicket map[string]*domain.ServiceFeedback
	tickets  *fakeTicketRepo
}

func newFakeFeedbackRepo(tickets *fakeTicketRepo) *fakeFeedbackRepo {
	repo := &fakeFeedbackRepo{
		ids:      idGen{prefix: "fbk"},
		byTicket: map[string]*domain.ServiceFeedback{},
		tickets:  tickets,
	}
	tickets.feedback = repo
	return repo
}

func (r *fakeFeedbackRepo) GetByTicket(_ context.Context, ticketID string) (*domain.ServiceFeedback, error) {
	feedback, ok := r.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *feedback
	return &copied, nil
}

func (r *fakeFeedbackRepo) UpsertForTicket(_ context.Context, feedback *domain.ServiceFeedback) error {
	now := time.Now()
	if existing, ok := r.byTicket[feedback.TicketID]; ok {
		existing.Comment = feedback.Comment
		existing.Remark = feedback.Remark
		existing.Status = feedback.Status
		existing.DateSolved = feedback.DateSolved
		existing.UpdatedAt = now
		*feedback = *existing
	} else {
		feedback.ID = r.ids.newID()
		feedback.CreatedAt = now
		feedback.UpdatedAt = now
		stored := *feedback
		r.byTicket[feedback.TicketID] = &stored
	}
	if ticket, ok := r.tickets.records[feedback.TicketID]; ok {
		ticket.Status = domain.TicketStatusCompleted
		ticket.UpdatedAt = now
	}
	return nil
}

// workflowFixture wires the fakes into the real services.
type workflowFixture struct {
	technicians *fakeTechnicianRepo
	devices     *fakeDeviceRepo
	assignments *fakeAssignmentRepo
	tickets     *fakeTicketRepo
	parts       *fakePartUsageRepo
	feedback    *fakeFeedbackRepo

	deviceService    *DeviceService
	ticketService    *TicketService
	partsService     *PartsService
	reportingService *ReportingService
}

func newWorkflowFixture() *workflowFixture {
	technicians := newFakeTechnicianRepo()
	devices := newFakeDeviceRepo()
	assignments := newFakeAssignmentRepo()
	tickets := newFakeTicketRepo(devices, assignments)
	parts := newFakePartUsageRepo()
	feedback := newFakeFeedbackRepo(tickets)

	return &workflowFixture{
		technicians: technicians,
		devices:     devices,
		assignments: assignments,
		tickets:     tickets,
		parts:       parts,
		feedback:    feedback,
		deviceService: NewDeviceService(DeviceDependencies{
			DeviceRepo: devices,
		}),
		ticketService: NewTicketService(TicketDependencies{
			TicketRepo:     tickets,
			DeviceRepo:     devices,
			AssignmentRepo: assignments,
			PartUsageRepo:  parts,
			FeedbackRepo:   feedback,
		}),
		partsService: NewPartsService(PartsDependencies{
			TicketRepo:    tickets,
			PartUsageRepo: parts,
		}),
		reportingService: NewReportingService(ReportingDependencies{
			TicketRepo: tickets,
		}),
	}
}

func (f *workflowFixture) technician(name, email string) *domain.Technician {
	technician := &domain.Technician{Name: name, Email: email, PasswordHash: "x", Phone: "555-0100"}
	_ = f.technicians.Create(context.Background(), technician)
	return technician
}

func (f *workflowFixture) device(serial string) *domain.Device {
	device, err := f.deviceService.Register(context.Background(), DeviceRegisterInput{
		SerialNumber: serial,
		DeviceType:   "laptop",
		Model:        "X1",
		Location:     "HQ",
		OS:           "Win11",
	})
	if err != nil {
		panic(err)
	}
	return device
}
