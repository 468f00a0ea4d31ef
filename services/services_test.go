package services

import (
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testSubmission() contact.Submission {
	return contact.Submission{
		Identity: contact.DeliveryIdentity{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"},
		Data: contact.FormData{
			Name:    "John Doe",
			Email:   "john@example.com",
			Subject: "Web Development Project",
			Message: "I would like to discuss a new portfolio site.",
		},
		SubmittedAt: testNow,
		RequestID:   "req-123",
	}
}

// metricValue returns the counter value (or histogram sample count) of the
// named family for the given provider label.
func metricValue(t *testing.T, reg *prometheus.Registry, name, provider string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !hasLabel(m, "provider", provider) {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
