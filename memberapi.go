package memberapi

import "github.com/goliatone/go-memberapi/core"

type Config = core.Config

type SessionConfig = core.SessionConfig

type CacheConfig = core.CacheConfig

type Option = core.Option

type Service = core.Service

type Requester = core.Requester
type QueryFetcher = core.QueryFetcher
type SessionProvider = core.SessionProvider
type SessionStore = core.SessionStore
type UnauthorizedPolicy = core.UnauthorizedPolicy
type StoreProvider = core.StoreProvider
type RepositoryStoreFactory = core.RepositoryStoreFactory

type Member = core.Member
type MemberFilter = core.MemberFilter
type Enrollment = core.Enrollment
type SubmitEnrollmentInput = core.SubmitEnrollmentInput
type UpdateEnrollmentInput = core.UpdateEnrollmentInput
type Lead = core.Lead
type LeadFilter = core.LeadFilter
type CreateLeadInput = core.CreateLeadInput
type Payment = core.Payment
type PaymentFilter = core.PaymentFilter
type PaymentSummary = core.PaymentSummary
type EnrollmentStats = core.EnrollmentStats
type PerformanceGoal = core.PerformanceGoal
type SetPerformanceGoalInput = core.SetPerformanceGoalInput

type Session = core.Session
type SaveSessionInput = core.SaveSessionInput

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithRequester         = core.WithRequester
	WithQueryFetcher      = core.WithQueryFetcher
	WithSessionProvider   = core.WithSessionProvider
	WithSessionStore      = core.WithSessionStore
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}
