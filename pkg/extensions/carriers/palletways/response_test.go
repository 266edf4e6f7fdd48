package palletways

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
)

func mustJSON(t *testing.T, body string) Normalized {
	t.Helper()
	n, err := parseJSON([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestInterpretSubmissionSuccess(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"},"Detail":{"ImportDetail":{"TrackingID":"TRK001","ResponseID":"R42","ConNo":"C9"}}}}`)
	result, err := interpretSubmission(n, "1234567890", false, "raw")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackingID != "TRK001" || result.ResponseID != "R42" || result.ConsignmentNumber != "C9" {
		t.Errorf("result = %+v", result)
	}
	if result.Synthetic {
		t.Error("live tracking id flagged synthetic")
	}
}

func TestInterpretSubmissionDetailList(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"},"Detail":[{"ImportDetail":[{"TrackingID":"TRK002"}]}]}}`)
	result, err := interpretSubmission(n, "ref", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackingID != "TRK002" {
		t.Errorf("tracking id = %q", result.TrackingID)
	}
}

func TestInterpretSubmissionDataContainer(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"},"Detail":{"Data":{"TrackingID":"TRK003"}}}}`)
	result, err := interpretSubmission(n, "ref", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackingID != "TRK003" {
		t.Errorf("tracking id = %q", result.TrackingID)
	}
}

func TestInterpretSubmissionValidationErrors(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"15","Description":"Validation failed","Consignment":[{"ImportID":"IMP1","Error":[{"Code":"W1","Description":"weight missing"},{"Code":"A1","Description":"bad address"}]}],"Account":{"Error":{"Description":"account suspended"}}}}}`)
	_, err := interpretSubmission(n, "ref", false, "")
	if err == nil {
		t.Fatal("expected carrier error")
	}
	var ce *utils.CarrierError
	if !stderrors.As(err, &ce) {
		t.Fatalf("got %T, want CarrierError", err)
	}
	if ce.Description != "Validation failed" {
		t.Errorf("description = %q", ce.Description)
	}
	if len(ce.Details) != 3 {
		t.Fatalf("got %d details, want 3: %v", len(ce.Details), ce.Details)
	}
	msg := err.Error()
	for _, want := range []string{"IMP1", "weight missing", "bad address", "account suspended"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestInterpretSubmissionStatusAsList(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":[{"Code":"15","Description":"rejected"}]}}`)
	_, err := interpretSubmission(n, "ref", false, "")
	var ce *utils.CarrierError
	if !stderrors.As(err, &ce) {
		t.Fatalf("got %v, want CarrierError", err)
	}
}

func TestInterpretSubmissionResponseIDFallback(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"},"Detail":{"ImportDetail":{"ResponseID":"77"}}}}`)
	result, err := interpretSubmission(n, "ref", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackingID != "PW-77" {
		t.Errorf("tracking id = %q, want PW-77", result.TrackingID)
	}
}

func TestInterpretSubmissionTestModeSynthetic(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"}}}`)
	result, err := interpretSubmission(n, "1234567890", true, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.TrackingID != "TEST-1234567890" {
		t.Errorf("tracking id = %q", result.TrackingID)
	}
	if !result.Synthetic {
		t.Error("synthetic tracking id not flagged")
	}
}

func TestInterpretSubmissionLiveMissingIDFails(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Status":{"Code":"OK"}}}`)
	if _, err := interpretSubmission(n, "ref", false, ""); err == nil {
		t.Fatal("live submission without identifiers must fail")
	}
}

func TestInterpretStatus(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Detail":{"Consignment":{"Status":{"Code":"900","Description":"Delivered"},"ConNo":"C1","DeliveryDate":"2026-03-05","DeliveryTime":"14:22"}}}}`)
	result, err := interpretStatus(n, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.StatusCode != "900" || result.StatusDescription != "Delivered" {
		t.Errorf("status = %+v", result)
	}
	if result.DeliveryDate != "2026-03-05" || result.DeliveryTime != "14:22" {
		t.Errorf("delivery stamp = %s %s", result.DeliveryDate, result.DeliveryTime)
	}
}

func TestInterpretStatusFlatShape(t *testing.T) {
	n := mustJSON(t, `{"StatusCode":"700","StatusDescription":"At depot"}`)
	result, err := interpretStatus(n, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.StatusCode != "700" {
		t.Errorf("status code = %q", result.StatusCode)
	}
}

func TestInterpretStatusNoCode(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Detail":{}}}`)
	if _, err := interpretStatus(n, ""); err == nil {
		t.Fatal("expected error when status code missing")
	}
}

func TestInterpretServices(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Service":[{"GroupCode":"P","Code":"A","Name":"Next Day","GroupName":"Premium","DaysMin":"1","DaysMax":"1"},{"Code":"B","Name":"Economy"}]}}`)
	options, err := interpretServices(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options", len(options))
	}
	if options[0].Code != "A" || options[0].Name != "Next Day" || options[0].DaysMin != "1" {
		t.Errorf("option = %+v", options[0])
	}
}

func TestInterpretServicesSingleObject(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Detail":{"Service":{"Code":"A","Name":"Next Day"}}}}`)
	options, err := interpretServices(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 1 || options[0].Code != "A" {
		t.Errorf("options = %+v", options)
	}
}

func TestInterpretServicesEmpty(t *testing.T) {
	n := mustJSON(t, `{"Response":{}}`)
	if _, err := interpretServices(n); err == nil {
		t.Fatal("expected error for empty service list")
	}
}

func TestInterpretNotes(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Note":[{"Date":"2026-03-04","Time":"09:15","Text":"collected from depot"},{"Date":"2026-03-05","Time":"11:00","Text":"out for delivery"}]}}`)
	notes, err := interpretNotes(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes", len(notes))
	}
	if notes[0].Text != "collected from depot" || notes[1].Time != "11:00" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestInterpretNotesScalar(t *testing.T) {
	n := mustJSON(t, `{"Response":{"Note":"single remark"}}`)
	notes, err := interpretNotes(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Text != "single remark" {
		t.Errorf("notes = %+v", notes)
	}
}
