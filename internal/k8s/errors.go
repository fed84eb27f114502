package k8s

import (
	"errors"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"cluster-facade-go/internal/errkind"
)

// classify turns a client-go error into a ClusterRejected or ClusterUnreachable
// failure. Status errors in the 4xx range are rejections of the object; server
// side failures, throttling and anything that never produced a status are
// treated as the cluster being unreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		return errkind.Wrap(errkind.ClusterUnreachable, err)
	}

	if apierrors.IsTimeout(err) ||
		apierrors.IsServerTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsServiceUnavailable(err) ||
		apierrors.IsInternalError(err) ||
		apierrors.IsUnexpectedServerError(err) {
		return errkind.Wrap(errkind.ClusterUnreachable, err)
	}

	s := status.Status()
	code := int(s.Code)
	if code >= http.StatusInternalServerError {
		return errkind.Wrap(errkind.ClusterUnreachable, err)
	}

	message := s.Message
	if message == "" {
		message = err.Error()
	}
	return errkind.Rejected(message, code, err)
}
