package emergency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/staff"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

// DoctorDirectory supplies the roster snapshot used for doctor selection.
type DoctorDirectory interface {
	Roster(ctx context.Context) ([]triage.DoctorCandidate, error)
}

// HospitalDirectory supplies the network snapshot used for hospital selection.
type HospitalDirectory interface {
	Network(ctx context.Context) ([]triage.HospitalCandidate, error)
}

// ActivitySink records doctor activity. Implementations must not fail the
// caller.
type ActivitySink interface {
	RecordActivity(ctx context.Context, doctorID uuid.UUID, action staff.Action, description string)
}

const DefaultMaxTokenAttempts = 5

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}

// Column widths of the patient fields.
const (
	maxNameLen     = 100
	maxPhoneLen    = 15
	maxLocationLen = 200
	maxSymptomLen  = 50
	maxTokenLen    = 20
)

func checkLengths(name, phone string) error {
	if utf8.RuneCountInString(name) > maxNameLen {
		return invalidf("name exceeds %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(phone) > maxPhoneLen {
		return invalidf("phone exceeds %d characters", maxPhoneLen)
	}
	return nil
}

type Config struct {
	MaxTokenAttempts  int
	StrictTransitions bool
}

type Service struct {
	cases       CaseRepository
	homeCare    HomeCareRepository
	doctors     DoctorDirectory
	hospitals   HospitalDirectory
	activity    ActivitySink
	tokens      *triage.TokenGenerator
	policy      triage.TransitionPolicy
	maxAttempts int
	runTx       func(ctx context.Context, fn func(ctx context.Context) error) error
	logger      zerolog.Logger
}

func NewService(cases CaseRepository, homeCare HomeCareRepository, doctors DoctorDirectory,
	hospitals HospitalDirectory, activity ActivitySink, logger zerolog.Logger, cfg Config) *Service {
	if cfg.MaxTokenAttempts < 1 {
		cfg.MaxTokenAttempts = DefaultMaxTokenAttempts
	}
	return &Service{
		cases:       cases,
		homeCare:    homeCare,
		doctors:     doctors,
		hospitals:   hospitals,
		activity:    activity,
		tokens:      triage.NewTokenGenerator(),
		policy:      triage.TransitionPolicy{Strict: cfg.StrictTransitions},
		maxAttempts: cfg.MaxTokenAttempts,
		runTx:       func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) },
		logger:      logger,
	}
}

// SetTokenGenerator replaces the random token source.
func (s *Service) SetTokenGenerator(g *triage.TokenGenerator) {
	s.tokens = g
}

// SetTxRunner makes multi-record writes run inside run.
func (s *Service) SetTxRunner(run func(ctx context.Context, fn func(ctx context.Context) error) error) {
	s.runTx = run
}

// -- Case Assembler --

// CreateCase classifies, assigns and persists a new case. Classification and
// selection happen once; a token collision only regenerates the token.
func (s *Service) CreateCase(ctx context.Context, in CaseInput) (*Case, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	symptom := strings.TrimSpace(in.Symptom)
	if symptom == "" {
		return nil, invalidf("symptom is required")
	}
	mode, ok := triage.ParseCareMode(in.Mode)
	if !ok {
		return nil, invalidf("invalid mode: %q", in.Mode)
	}
	phone := strings.TrimSpace(in.Phone)
	location := strings.TrimSpace(in.Location)
	if err := checkLengths(name, phone); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(symptom) > maxSymptomLen {
		return nil, invalidf("symptom exceeds %d characters", maxSymptomLen)
	}
	if utf8.RuneCountInString(location) > maxLocationLen {
		return nil, invalidf("location exceeds %d characters", maxLocationLen)
	}
	token := strings.TrimSpace(in.Token)
	if len(token) > maxTokenLen {
		return nil, invalidf("token exceeds %d characters", maxTokenLen)
	}

	c := &Case{
		PatientID:   in.PatientID,
		Name:        name,
		Phone:       phone,
		Location:    location,
		Symptom:     triage.Symptom(symptom),
		Description: in.Description,
		Mode:        mode,
		DoctorID:    in.DoctorID,
		HospitalID:  in.HospitalID,
		Status:      triage.InitialStatus,
	}
	if err := s.assemble(ctx, c); err != nil {
		return nil, err
	}
	if err := s.insertCase(ctx, c, token); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, c)
	return c, nil
}

// assemble fills priority, score, doctor and hospital. Pre-assigned doctor or
// hospital ids are kept.
func (s *Service) assemble(ctx context.Context, c *Case) error {
	c.Priority, c.Score = triage.Classify(c.Symptom)
	if !c.Symptom.Known() {
		s.logger.Warn().Str("symptom", string(c.Symptom)).Str("priority", string(c.Priority)).Msg("unrecognised symptom")
	}

	if c.DoctorID == nil {
		roster, err := s.doctors.Roster(ctx)
		if err != nil {
			return err
		}
		if d, ok := triage.SelectDoctor(c.Symptom, roster); ok {
			id := d.ID
			c.DoctorID = &id
		}
	}
	if c.HospitalID == nil {
		network, err := s.hospitals.Network(ctx)
		if err != nil {
			return err
		}
		if h, ok := triage.SelectHospital(network); ok {
			id := h.ID
			c.HospitalID = &id
		}
	}
	return nil
}

// insertCase persists c under the supplied token, or under freshly generated
// ones until one is free. A supplied token is never replaced.
func (s *Service) insertCase(ctx context.Context, c *Case, supplied string) error {
	if supplied != "" {
		c.Token = supplied
		if err := s.cases.Create(ctx, c); err != nil {
			return fmt.Errorf("creating case %s: %w", supplied, err)
		}
		return nil
	}
	return s.withFreshToken("emergency_case",
		func() string { return s.tokens.NewToken(c.Mode) },
		func(token string) error {
			c.Token = token
			return s.cases.Create(ctx, c)
		})
}

// withFreshToken calls create with new tokens until it stops reporting
// ErrDuplicateToken, at most maxAttempts times.
func (s *Service) withFreshToken(record string, next func() string, create func(token string) error) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		token := next()
		err := create(token)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateToken) {
			return fmt.Errorf("creating %s: %w", record, err)
		}
		s.logger.Warn().
			Str("record", record).
			Str("token", token).
			Int("attempt", attempt).
			Msg("token collision, regenerating")
	}
	return fmt.Errorf("creating %s: %w after %d attempts", record, ErrTokenExhausted, s.maxAttempts)
}

func (s *Service) afterCreate(ctx context.Context, c *Case) {
	evt := s.logger.Info()
	if c.DoctorID == nil || c.HospitalID == nil {
		evt = s.logger.Warn()
	}
	evt.Str("token", c.Token).
		Str("priority", string(c.Priority)).
		Int("score", c.Score).
		Bool("doctor_assigned", c.DoctorID != nil).
		Bool("hospital_assigned", c.HospitalID != nil).
		Msg("emergency case created")

	if c.DoctorID != nil {
		s.activity.RecordActivity(ctx, *c.DoctorID, staff.ActionCaseAssigned,
			fmt.Sprintf("Assigned case %s (%s)", c.Token, c.Priority))
	}
}

// -- Reads --

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *Service) GetCaseByToken(ctx context.Context, token string) (*Case, error) {
	return s.cases.GetByToken(ctx, strings.TrimSpace(token))
}

func (s *Service) ListCases(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.cases.List(ctx, limit, offset)
}

func (s *Service) CountCases(ctx context.Context, statuses ...triage.Status) (int, error) {
	return s.cases.CountByStatus(ctx, statuses...)
}

// -- Updates --

// UpdateCase is the whole-record update path. Only status and eta are taken
// from patch; token, priority, score and assignments are never rewritten.
func (s *Service) UpdateCase(ctx context.Context, id uuid.UUID, patch *Case) (*Case, error) {
	existing, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status := existing.Status
	if patch.Status != "" {
		st, ok := triage.ParseStatus(string(patch.Status))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, patch.Status)
		}
		if err := s.policy.Check(existing.Status, st); err != nil {
			return nil, err
		}
		status = st
	}
	eta := existing.ETA
	if patch.ETA != "" {
		eta = patch.ETA
	}
	if err := s.cases.UpdateProgress(ctx, id, status, eta); err != nil {
		return nil, err
	}
	existing.Status = status
	existing.ETA = eta
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// UpdateStatus moves a case to a new status. When actor is a doctor the
// change is written to that doctor's activity log.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor *uuid.UUID) (*Case, error) {
	st, ok := triage.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	c, err := s.UpdateCase(ctx, id, &Case{Status: st})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("token", c.Token).Str("status", string(st)).Msg("case status updated")

	if actor != nil {
		action := staff.ActionCaseUpdated
		if st == triage.StatusCompleted {
			action = staff.ActionCaseCompleted
		}
		s.activity.RecordActivity(ctx, *actor, action, fmt.Sprintf("Updated case %s to %s", c.Token, st))
	}
	return c, nil
}

// -- Emergency Queue View --

func sortQueue(cases []*Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].QueueKey().Less(cases[j].QueueKey())
	})
}

// OpenCases returns the open queue in order.
func (s *Service) OpenCases(ctx context.Context) ([]*Case, error) {
	all, err := s.cases.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]*Case, 0, len(all))
	for _, c := range all {
		if c.Status.Open() {
			open = append(open, c)
		}
	}
	sortQueue(open)
	return open, nil
}

// OpenQueue renders the public queue. Positions and the summary describe the
// whole open queue; f only hides rows.
func (s *Service) OpenQueue(ctx context.Context, f QueueFilter) (*QueueView, error) {
	open, err := s.OpenCases(ctx)
	if err != nil {
		return nil, err
	}
	view := &QueueView{Cases: make([]QueueEntry, 0, len(open))}
	for i, c := range open {
		view.Summary.Count(c.Status, c.Priority)
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		view.Cases = append(view.Cases, QueueEntry{
			QueueNo:  i + 1,
			Token:    c.Token,
			Name:     c.Name,
			Symptom:  c.Symptom.Label(),
			Priority: c.Priority,
			Status:   c.Status,
			Doctor:   c.DoctorLabel(),
		})
	}
	view.Total = len(view.Cases)
	return view, nil
}

// DoctorCases returns every case assigned to doctorID in queue order.
func (s *Service) DoctorCases(ctx context.Context, doctorID uuid.UUID) (*DoctorDashboard, error) {
	cases, err := s.cases.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	sortQueue(cases)
	dash := &DoctorDashboard{Cases: cases, Total: len(cases)}
	for _, c := range cases {
		if c.Status == triage.StatusWaiting {
			dash.Pending++
		}
	}
	if dash.Cases == nil {
		dash.Cases = []*Case{}
	}
	return dash, nil
}

// -- Home Care --

// CreateHomeCare records a home-care request and opens the matching
// emergency case in one transaction.
func (s *Service) CreateHomeCare(ctx context.Context, in HomeCareInput) (*HomeCareRequest, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, invalidf("phone is required")
	}
	if strings.TrimSpace(in.Issue) == "" {
		return nil, invalidf("issue is required")
	}
	issue, ok := ParseIssue(in.Issue)
	if !ok {
		return nil, invalidf("unknown issue: %q", in.Issue)
	}
	symptom, _ := IssueSymptom(issue)
	if err := checkLengths(name, phone); err != nil {
		return nil, err
	}
	mode := in.Mode
	if mode == "" {
		mode = HomeVisit
	}
	if mode != HomeVisit && mode != CallAssist {
		return nil, invalidf("invalid mode: %q", in.Mode)
	}

	var req *HomeCareRequest
	c := &Case{
		Name:        name,
		Phone:       phone,
		Location:    strings.TrimSpace(in.Address),
		Symptom:     symptom,
		Description: "Home care request: " + issue,
		Mode:        HomeCareMode(mode),
	}
	err := s.runTx(ctx, func(ctx context.Context) error {
		c.DoctorID, c.HospitalID = nil, nil
		if err := s.assemble(ctx, c); err != nil {
			return err
		}
		c.Status = triage.StatusWaiting
		if c.DoctorID != nil {
			c.Status = triage.StatusDoctorAssigned
		}
		if err := s.insertCase(ctx, c, ""); err != nil {
			return err
		}

		caseID := c.ID
		req = &HomeCareRequest{
			Name:     name,
			Phone:    phone,
			Address:  c.Location,
			Issue:    issue,
			Mode:     mode,
			DoctorID: c.DoctorID,
			CaseID:   &caseID,
			Status:   HomeCareStatusPending,
			ETA:      HomeCareDefaultETA,
		}
		return s.withFreshToken("home_care_request", s.tokens.NewHomeCareToken, func(token string) error {
			req.Token = token
			return s.homeCare.Create(ctx, req)
		})
	})
	if err != nil {
		return nil, err
	}
	req.CaseToken = c.Token
	s.afterCreate(ctx, c)
	return req, nil
}

func (s *Service) GetHomeCare(ctx context.Context, token string) (*HomeCareRequest, error) {
	return s.homeCare.GetByToken(ctx, strings.TrimSpace(token))
}
