package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	membersPath     = "/api/members"
	enrollmentsPath = "/api/enrollments"
)

func (s *Service) GetMember(ctx context.Context, memberID string) (Member, error) {
	if s == nil {
		return Member{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	id := strings.TrimSpace(memberID)
	if id == "" {
		err := s.mapError(goerrors.New("core: member id is required", goerrors.CategoryBadInput))
		s.observeOperation(ctx, startedAt, "member.get", err, nil)
		return Member{}, err
	}

	raw, err := s.fetcher.Fetch(ctx, QueryKey{membersPath + "/" + id}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "member.get", err, map[string]any{"member_id": id})
		return Member{}, err
	}
	member, err := decodeInto[Member](raw)
	s.observeOperation(ctx, startedAt, "member.get", err, map[string]any{"member_id": id})
	if err != nil {
		return Member{}, s.mapError(err)
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, filter MemberFilter) ([]Member, error) {
	if s == nil {
		return nil, serviceNilError()
	}
	startedAt := time.Now().UTC()

	path := filter.QueryPath(membersPath)
	raw, err := s.fetcher.Fetch(ctx, QueryKey{path}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "member.list", err, nil)
		return nil, err
	}
	members, err := decodeInto[[]Member](raw)
	s.observeOperation(ctx, startedAt, "member.list", err, map[string]any{"count": len(members)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return members, nil
}

func (s *Service) GetEnrollment(ctx context.Context, enrollmentID string) (Enrollment, error) {
	if s == nil {
		return Enrollment{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	id := strings.TrimSpace(enrollmentID)
	if id == "" {
		err := s.mapError(goerrors.New("core: enrollment id is required", goerrors.CategoryBadInput))
		s.observeOperation(ctx, startedAt, "enrollment.get", err, nil)
		return Enrollment{}, err
	}

	raw, err := s.fetcher.Fetch(ctx, QueryKey{enrollmentsPath + "/" + id}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.get", err, map[string]any{"enrollment_id": id})
		return Enrollment{}, err
	}
	enrollment, err := decodeInto[Enrollment](raw)
	s.observeOperation(ctx, startedAt, "enrollment.get", err, map[string]any{"enrollment_id": id})
	if err != nil {
		return Enrollment{}, s.mapError(err)
	}
	return enrollment, nil
}

// SubmitEnrollment drives the member registration flow. The submission is
// anonymous-tolerant on the backend but still sends credentials when a
// session exists.
func (s *Service) SubmitEnrollment(ctx context.Context, in SubmitEnrollmentInput) (Enrollment, error) {
	if s == nil {
		return Enrollment{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	if err := in.Validate(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.submit", mapped, nil)
		return Enrollment{}, mapped
	}

	res, err := s.doJSON(ctx, http.MethodPost, enrollmentsPath, in)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.submit", err, nil)
		return Enrollment{}, err
	}
	enrollment, err := decodeInto[Enrollment](res.Body)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.submit", err, nil)
		return Enrollment{}, err
	}

	s.invalidate(ctx, QueryKey{enrollmentsPath})
	s.invalidate(ctx, QueryKey{membersPath})
	s.observeOperation(ctx, startedAt, "enrollment.submit", nil, map[string]any{"enrollment_id": enrollment.ID})
	return enrollment, nil
}

func (s *Service) UpdateEnrollment(ctx context.Context, in UpdateEnrollmentInput) (Enrollment, error) {
	if s == nil {
		return Enrollment{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	if err := in.Validate(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.update", mapped, nil)
		return Enrollment{}, mapped
	}
	id := strings.TrimSpace(in.EnrollmentID)

	res, err := s.doJSON(ctx, http.MethodPut, enrollmentsPath+"/"+id, in)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.update", err, map[string]any{"enrollment_id": id})
		return Enrollment{}, err
	}
	enrollment, err := decodeInto[Enrollment](res.Body)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "enrollment.update", err, map[string]any{"enrollment_id": id})
		return Enrollment{}, err
	}

	s.invalidate(ctx, QueryKey{enrollmentsPath + "/" + id})
	s.invalidate(ctx, QueryKey{enrollmentsPath})
	s.observeOperation(ctx, startedAt, "enrollment.update", nil, map[string]any{"enrollment_id": id})
	return enrollment, nil
}

func (s *Service) CancelEnrollment(ctx context.Context, enrollmentID string, reason string) error {
	if s == nil {
		return serviceNilError()
	}
	startedAt := time.Now().UTC()
	id := strings.TrimSpace(enrollmentID)
	if id == "" {
		err := s.mapError(goerrors.New("core: enrollment id is required", goerrors.CategoryBadInput))
		s.observeOperation(ctx, startedAt, "enrollment.cancel", err, nil)
		return err
	}

	payload := map[string]string{"reason": strings.TrimSpace(reason)}
	_, err := s.doJSON(ctx, http.MethodPost, enrollmentsPath+"/"+id+"/cancel", payload)
	if err != nil {
		err = s.mapError(err)
	}
	if err == nil {
		s.invalidate(ctx, QueryKey{enrollmentsPath + "/" + id})
		s.invalidate(ctx, QueryKey{enrollmentsPath})
	}
	s.observeOperation(ctx, startedAt, "enrollment.cancel", err, map[string]any{"enrollment_id": id})
	return err
}

func (s *Service) doJSON(ctx context.Context, method string, path string, payload any) (Response, error) {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return Response{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "core: encode request payload").
				WithCode(http.StatusBadRequest).
				WithTextCode(ServiceErrorBadInput)
		}
		body = encoded
	}
	res, err := s.requester.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return Response{}, err
	}
	if err := ResponseError(res.StatusCode, res.Body); err != nil {
		return Response{}, err
	}
	return res, nil
}

func (s *Service) invalidate(ctx context.Context, key QueryKey) {
	if s == nil || s.fetcher == nil {
		return
	}
	if err := s.fetcher.Invalidate(ctx, key); err != nil {
		s.logError(ctx, "cache invalidation failed", map[string]any{
			"key":   fmtKey(key),
			"error": err.Error(),
		})
	}
}

func fmtKey(key QueryKey) string {
	if len(key) == 0 {
		return ""
	}
	if path, ok := key[0].(string); ok {
		return path
	}
	return ""
}

func decodeInto[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, goerrors.Wrap(err, goerrors.CategoryExternal, "core: decode response payload").
			WithCode(http.StatusBadGateway).
			WithTextCode(ServiceErrorUpstreamFailure)
	}
	return out, nil
}

func serviceNilError() error {
	return goerrors.New("core: service is nil", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ServiceErrorInternal)
}
