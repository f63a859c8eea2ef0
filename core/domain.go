package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidMemberStatus     = errors.New("core: invalid member status")
	ErrInvalidEnrollmentStatus = errors.New("core: invalid enrollment status")
	ErrInvalidLeadStatus       = errors.New("core: invalid lead status")
	ErrInvalidPaymentStatus    = errors.New("core: invalid payment status")
	ErrInvalidGoalPeriod       = errors.New("core: invalid goal period")

	// ErrSessionNotFound is returned by session stores when no current
	// session exists for a subject.
	ErrSessionNotFound = errors.New("core: session not found")
)

type MemberStatus string

const (
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusActive    MemberStatus = "active"
	MemberStatusLapsed    MemberStatus = "lapsed"
	MemberStatusCancelled MemberStatus = "cancelled"
)

func (s MemberStatus) Validate() error {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusLapsed, MemberStatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMemberStatus, string(s))
}

type Member struct {
	ID         string       `json:"id"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	PlanID     string       `json:"planId"`
	Status     MemberStatus `json:"status"`
	EnrolledAt *time.Time   `json:"enrolledAt,omitempty"`
}

type MemberFilter struct {
	Status  MemberStatus
	PlanID  string
	Search  string
	Page    int
	PerPage int
}

// QueryPath renders the filter as the members listing request path. The
// encoded path doubles as the cache discriminator for list reads.
func (f MemberFilter) QueryPath(base string) string {
	values := url.Values{}
	if strings.TrimSpace(string(f.Status)) != "" {
		values.Set("status", string(f.Status))
	}
	if strings.TrimSpace(f.PlanID) != "" {
		values.Set("planId", strings.TrimSpace(f.PlanID))
	}
	if strings.TrimSpace(f.Search) != "" {
		values.Set("search", strings.TrimSpace(f.Search))
	}
	return appendQuery(base, values, f.Page, f.PerPage)
}

type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusPastDue   EnrollmentStatus = "past_due"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

func (s EnrollmentStatus) Validate() error {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusActive, EnrollmentStatusPastDue, EnrollmentStatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEnrollmentStatus, string(s))
}

type Enrollment struct {
	ID                  string           `json:"id"`
	MemberID            string           `json:"memberId"`
	PlanID              string           `json:"planId"`
	Status              EnrollmentStatus `json:"status"`
	MonthlyPremiumCents int64            `json:"monthlyPremiumCents"`
	PaymentMethod       string           `json:"paymentMethod,omitempty"`
	StartedAt           *time.Time       `json:"startedAt,omitempty"`
	CancelledAt         *time.Time       `json:"cancelledAt,omitempty"`
	Metadata            map[string]any   `json:"metadata,omitempty"`
}

type SubmitEnrollmentInput struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	PlanID        string `json:"planId"`
	PaymentMethod string `json:"paymentMethod"`
}

func (in SubmitEnrollmentInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return fmt.Errorf("core: first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("core: last name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("core: email is required")
	}
	if strings.TrimSpace(in.PlanID) == "" {
		return fmt.Errorf("core: plan id is required")
	}
	return nil
}

type UpdateEnrollmentInput struct {
	EnrollmentID        string           `json:"-"`
	PlanID              string           `json:"planId,omitempty"`
	Status              EnrollmentStatus `json:"status,omitempty"`
	MonthlyPremiumCents int64            `json:"monthlyPremiumCents,omitempty"`
	PaymentMethod       string           `json:"paymentMethod,omitempty"`
}

func (in UpdateEnrollmentInput) Validate() error {
	if strings.TrimSpace(in.EnrollmentID) == "" {
		return fmt.Errorf("core: enrollment id is required")
	}
	if strings.TrimSpace(string(in.Status)) != "" {
		if err := in.Status.Validate(); err != nil {
			return err
		}
	}
	if in.MonthlyPremiumCents < 0 {
		return fmt.Errorf("core: monthly premium must be >= 0")
	}
	return nil
}

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusEnrolled  LeadStatus = "enrolled"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Validate() error {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusEnrolled, LeadStatusLost:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLeadStatus, string(s))
}

type Lead struct {
	ID        string     `json:"id"`
	AgentID   string     `json:"agentId"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Status    LeadStatus `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type LeadFilter struct {
	AgentID string
	Status  LeadStatus
	Page    int
	PerPage int
}

func (f LeadFilter) QueryPath(base string) string {
	values := url.Values{}
	if strings.TrimSpace(f.AgentID) != "" {
		values.Set("agentId", strings.TrimSpace(f.AgentID))
	}
	if strings.TrimSpace(string(f.Status)) != "" {
		values.Set("status", string(f.Status))
	}
	return appendQuery(base, values, f.Page, f.PerPage)
}

type CreateLeadInput struct {
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

func (in CreateLeadInput) Validate() error {
	if strings.TrimSpace(in.AgentID) == "" {
		return fmt.Errorf("core: agent id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("core: lead name is required")
	}
	if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("core: lead email or phone is required")
	}
	return nil
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, string(s))
}

type Payment struct {
	ID          string        `json:"id"`
	MemberID    string        `json:"memberId"`
	AmountCents int64         `json:"amountCents"`
	Status      PaymentStatus `json:"status"`
	Method      string        `json:"method,omitempty"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
}

type PaymentFilter struct {
	MemberID string
	Status   PaymentStatus
	From     time.Time
	To       time.Time
	Page     int
	PerPage  int
}

func (f PaymentFilter) QueryPath(base string) string {
	values := url.Values{}
	if strings.TrimSpace(f.MemberID) != "" {
		values.Set("memberId", strings.TrimSpace(f.MemberID))
	}
	if strings.TrimSpace(string(f.Status)) != "" {
		values.Set("status", string(f.Status))
	}
	if !f.From.IsZero() {
		values.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		values.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	return appendQuery(base, values, f.Page, f.PerPage)
}

// PaymentSummary aggregates a billing period for the admin payment tracker.
type PaymentSummary struct {
	CollectedCents   int64      `json:"collectedCents"`
	OutstandingCents int64      `json:"outstandingCents"`
	RefundedCents    int64      `json:"refundedCents"`
	FailedCount      int        `json:"failedCount"`
	PeriodStart      *time.Time `json:"periodStart,omitempty"`
	PeriodEnd        *time.Time `json:"periodEnd,omitempty"`
}

// EnrollmentStats backs the admin analytics dashboard.
type EnrollmentStats struct {
	TotalMembers        int   `json:"totalMembers"`
	ActiveEnrollments   int   `json:"activeEnrollments"`
	PendingEnrollments  int   `json:"pendingEnrollments"`
	NewThisMonth        int   `json:"newThisMonth"`
	CancelledThisMonth  int   `json:"cancelledThisMonth"`
	PastDueEnrollments  int   `json:"pastDueEnrollments"`
	ConversionRatePct   int   `json:"conversionRatePct"`
	CollectedMonthCents int64 `json:"collectedMonthCents"`
}

type GoalPeriod string

const (
	GoalPeriodMonthly   GoalPeriod = "monthly"
	GoalPeriodQuarterly GoalPeriod = "quarterly"
	GoalPeriodAnnual    GoalPeriod = "annual"
)

func (p GoalPeriod) Validate() error {
	switch p {
	case GoalPeriodMonthly, GoalPeriodQuarterly, GoalPeriodAnnual:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidGoalPeriod, string(p))
}

type PerformanceGoal struct {
	ID      string     `json:"id"`
	AgentID string     `json:"agentId"`
	Metric  string     `json:"metric"`
	Target  int64      `json:"target"`
	Period  GoalPeriod `json:"period"`
}

type SetPerformanceGoalInput struct {
	AgentID string     `json:"agentId"`
	Metric  string     `json:"metric"`
	Target  int64      `json:"target"`
	Period  GoalPeriod `json:"period"`
}

func (in SetPerformanceGoalInput) Validate() error {
	if strings.TrimSpace(in.AgentID) == "" {
		return fmt.Errorf("core: agent id is required")
	}
	if strings.TrimSpace(in.Metric) == "" {
		return fmt.Errorf("core: goal metric is required")
	}
	if in.Target <= 0 {
		return fmt.Errorf("core: goal target must be > 0")
	}
	return in.Period.Validate()
}

// Session is the platform credential: a bearer token with optional refresh
// material. The executor only ever reads the access token; ownership stays
// with the session provider and its store.
type Session struct {
	ID           string
	Subject      string
	TokenType    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SaveSessionInput struct {
	Subject      string
	TokenType    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

func (in SaveSessionInput) Validate() error {
	if strings.TrimSpace(in.Subject) == "" {
		return fmt.Errorf("core: session subject is required")
	}
	if strings.TrimSpace(in.AccessToken) == "" {
		return fmt.Errorf("core: access token is required")
	}
	return nil
}

func appendQuery(base string, values url.Values, page, perPage int) string {
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		values.Set("perPage", strconv.Itoa(perPage))
	}
	if len(values) == 0 {
		return base
	}
	return base + "?" + values.Encode()
}
