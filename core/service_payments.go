package core

import (
	"context"
	"net/url"
	"time"
)

const (
	paymentsPath        = "/api/payments"
	paymentsSummaryPath = "/api/payments/summary"
	enrollmentStatsPath = "/api/analytics/enrollments"
)

func (s *Service) ListPayments(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	if s == nil {
		return nil, serviceNilError()
	}
	startedAt := time.Now().UTC()

	path := filter.QueryPath(paymentsPath)
	raw, err := s.fetcher.Fetch(ctx, QueryKey{path}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "payment.list", err, map[string]any{"member_id": filter.MemberID})
		return nil, err
	}
	payments, err := decodeInto[[]Payment](raw)
	s.observeOperation(ctx, startedAt, "payment.list", err, map[string]any{"member_id": filter.MemberID, "count": len(payments)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return payments, nil
}

func (s *Service) PaymentSummary(ctx context.Context, from time.Time, to time.Time) (PaymentSummary, error) {
	if s == nil {
		return PaymentSummary{}, serviceNilError()
	}
	startedAt := time.Now().UTC()

	values := url.Values{}
	if !from.IsZero() {
		values.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		values.Set("to", to.UTC().Format(time.RFC3339))
	}
	path := paymentsSummaryPath
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	raw, err := s.fetcher.Fetch(ctx, QueryKey{path}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "payment.summary", err, nil)
		return PaymentSummary{}, err
	}
	summary, err := decodeInto[PaymentSummary](raw)
	s.observeOperation(ctx, startedAt, "payment.summary", err, nil)
	if err != nil {
		return PaymentSummary{}, s.mapError(err)
	}
	return summary, nil
}

func (s *Service) EnrollmentStats(ctx context.Context) (EnrollmentStats, error) {
	if s == nil {
		return EnrollmentStats{}, serviceNilError()
	}
	startedAt := time.Now().UTC()

	raw, err := s.fetcher.Fetch(ctx, QueryKey{enrollmentStatsPath}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "analytics.enrollment_stats", err, nil)
		return EnrollmentStats{}, err
	}
	stats, err := decodeInto[EnrollmentStats](raw)
	s.observeOperation(ctx, startedAt, "analytics.enrollment_stats", err, nil)
	if err != nil {
		return EnrollmentStats{}, s.mapError(err)
	}
	return stats, nil
}
