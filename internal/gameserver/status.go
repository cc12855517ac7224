package gameserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
)

// ErrorDomain is the errdetails.ErrorInfo domain for world errors.
const ErrorDomain = "worldbible"

// CodeFor maps an error kind to its gRPC status code.
func CodeFor(kind bible.Kind) codes.Code {
	switch kind {
	case bible.KindMissingField, bible.KindInvalidEnum, bible.KindInvalidRange,
		bible.KindInvalidAttribute, bible.KindUnknownField:
		return codes.InvalidArgument
	case bible.KindConsistency:
		return codes.FailedPrecondition
	case bible.KindDuplicateName:
		return codes.AlreadyExists
	case bible.KindWorldNotFound, bible.KindCharacterNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// toStatus converts err into a gRPC status error. World errors carry an
// ErrorInfo with the kind as reason and, for argument errors, a BadRequest
// naming the offending fields.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	kind := bible.KindOf(err)
	if kind == "" {
		return status.Error(codes.Internal, "internal error")
	}
	code := CodeFor(kind)
	fields := bible.FieldsOf(err)
	st := status.New(code, bible.Describe(err))

	details := []protoadapt.MessageV1{
		&errdetails.ErrorInfo{
			Reason:   string(kind),
			Domain:   ErrorDomain,
			Metadata: map[string]string{"fields": strings.Join(fields, ",")},
		},
	}
	if code == codes.InvalidArgument && len(fields) > 0 {
		br := &errdetails.BadRequest{}
		for _, f := range fields {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       f,
				Description: err.Error(),
			})
		}
		details = append(details, br)
	}
	withDetails, detailErr := st.WithDetails(details...)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// KindFromStatus recovers the world error kind from a status error returned
// by the service, or "" when the status carries none.
func KindFromStatus(err error) bible.Kind {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return bible.Kind(info.GetReason())
		}
	}
	return ""
}
