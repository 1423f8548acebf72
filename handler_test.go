package eventsourcing_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	es "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/fixtures"
)

type widgetInput struct {
	WidgetID string `json:"widgetId" validate:"required,uuid"`
	Count    *int   `json:"count" validate:"required,gt=0"`
}

func (in *widgetInput) SetDefaults() {
	if in.Count == nil {
		one := 1
		in.Count = &one
	}
}

const widgetID = "99999999-9999-4999-8999-999999999999"

func widgetBuilder(spy *fixtures.StoreSpy) es.HandlerFunc {
	return es.NewHandler(spy, func(ctx context.Context, in widgetInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject("widget", in.WidgetID)
		env, err := es.NewEnvelope(subject, "io.genesisdb.demo.widget-made", map[string]any{
			"widgetId": in.WidgetID,
			"count":    *in.Count,
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectIsNew(subject)}, nil
	})
}

func TestHandlerAppendsBuiltEvents(t *testing.T) {
	spy := fixtures.NewStoreSpy()
	handler := widgetBuilder(spy)

	err := handler(context.Background(), json.RawMessage(`{"widgetId":"`+widgetID+`","count":3}`))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if spy.AppendCalls != 1 {
		t.Fatalf("AppendCalls = %d, want 1", spy.AppendCalls)
	}
	env := spy.LastAppendEvents[0]
	if env.Subject != "/widget/"+widgetID {
		t.Fatalf("subject = %q", env.Subject)
	}
	if env.Data["count"] != float64(3) {
		t.Fatalf("count = %v, want 3", env.Data["count"])
	}
	if len(spy.LastPreconditions) != 1 || spy.LastPreconditions[0].Kind() != "isSubjectNew" {
		t.Fatalf("preconditions = %v", spy.LastPreconditions)
	}
}

func TestHandlerAppliesDefaultsBeforeValidation(t *testing.T) {
	spy := fixtures.NewStoreSpy()
	handler := widgetBuilder(spy)

	err := handler(context.Background(), json.RawMessage(`{"widgetId":"`+widgetID+`"}`))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got := spy.LastAppendEvents[0].Data["count"]; got != float64(1) {
		t.Fatalf("count = %v, want default 1", got)
	}
}

func TestHandlerRejectsMalformedJSON(t *testing.T) {
	spy := fixtures.NewStoreSpy()
	handler := widgetBuilder(spy)

	err := handler(context.Background(), json.RawMessage(`{`))

	var verr *es.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if spy.AppendCalls != 0 {
		t.Fatalf("AppendCalls = %d, want 0 on invalid payload", spy.AppendCalls)
	}
}

func TestHandlerRejectsConstraintViolations(t *testing.T) {
	spy := fixtures.NewStoreSpy()
	handler := widgetBuilder(spy)

	err := handler(context.Background(), json.RawMessage(`{"widgetId":"`+widgetID+`","count":0}`))

	var verr *es.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "Count" || verr.Fields[0].Rule != "gt" {
		t.Fatalf("fields = %v", verr.Fields)
	}
	if spy.AppendCalls != 0 {
		t.Fatalf("AppendCalls = %d, want 0 on validation failure", spy.AppendCalls)
	}
}

func TestHandlerPropagatesAppendFailure(t *testing.T) {
	spy := fixtures.NewStoreSpy().FailOnAppend(es.ErrSubjectExists)
	handler := widgetBuilder(spy)

	err := handler(context.Background(), json.RawMessage(`{"widgetId":"`+widgetID+`","count":1}`))
	if !errors.Is(err, es.ErrSubjectExists) {
		t.Fatalf("error = %v, want ErrSubjectExists", err)
	}
}

func TestHandlerPropagatesBuilderFailure(t *testing.T) {
	spy := fixtures.NewStoreSpy()
	boom := errors.New("boom")
	handler := es.NewHandler(spy, func(ctx context.Context, in widgetInput) ([]es.Envelope, []es.Precondition, error) {
		return nil, nil, boom
	})

	err := handler(context.Background(), json.RawMessage(`{"widgetId":"`+widgetID+`","count":1}`))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want builder error", err)
	}
	if spy.AppendCalls != 0 {
		t.Fatalf("AppendCalls = %d, want 0 when builder fails", spy.AppendCalls)
	}
}
