// Package tools routes named tool calls to their handlers and shapes the
// response envelope the host application renders.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownTool     = errors.New("unknown tool")
)

// Recorder receives one audit record per call. Record must not block.
type Recorder interface {
	Record(inv *models.Invocation)
}

// result is what a handler hands back before it is wrapped in the envelope.
type result struct {
	summary       string
	payload       interface{}
	usingMockData bool
}

type handler func(ctx context.Context, args Arguments) (*result, error)

type tool struct {
	definition models.ToolDefinition
	run        handler
}

// Dispatcher is safe for concurrent use; it keeps no per-call state.
type Dispatcher struct {
	live     provider.Client
	demo     provider.Client
	recorder Recorder
	logger   *logrus.Logger
	tools    map[string]*tool
	order    []string
}

// NewDispatcher wires the handlers. live may be nil, in which case every call
// is served from demo.
func NewDispatcher(live, demo provider.Client, recorder Recorder, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	d := &Dispatcher{
		live:     live,
		demo:     demo,
		recorder: recorder,
		logger:   logger,
		tools:    make(map[string]*tool),
	}
	d.register(areaLookupDefinition, d.areaLookup)
	d.register(affordabilityDefinition, d.affordabilityLookup)
	d.register(mortgageRateDefinition, d.mortgageRateLookup)
	d.register(propertySearchDefinition, d.propertySearch)
	d.register(propertyDetailsDefinition, d.propertyDetails)
	return d
}

func (d *Dispatcher) register(def models.ToolDefinition, run handler) {
	d.tools[def.Name] = &tool{definition: def, run: run}
	d.order = append(d.order, def.Name)
}

// Definitions lists the tools in registration order.
func (d *Dispatcher) Definitions() []models.ToolDefinition {
	defs := make([]models.ToolDefinition, 0, len(d.order))
	for _, name := range d.order {
		defs = append(defs, d.tools[name].definition)
	}
	return defs
}

// Call runs one tool. Only ErrUnknownTool and ErrInvalidArgument are returned
// as errors; every other failure becomes an error-flagged envelope.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) (*models.ToolResponse, error) {
	t, ok := d.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	res, err := t.run(ctx, Arguments(args))
	duration := time.Since(start)

	fields := logrus.Fields{
		"tool":        name,
		"duration_ms": duration.Milliseconds(),
	}

	if errors.Is(err, ErrInvalidArgument) {
		d.logger.WithError(err).WithFields(fields).Info("Rejected tool arguments")
		d.record(name, args, duration, false, err)
		return nil, err
	}

	var response *models.ToolResponse
	if err != nil {
		response = &models.ToolResponse{
			SummaryText:      fmt.Sprintf("Unable to complete %s: %v", t.definition.Title, err),
			PresentationHint: t.definition.PresentationHint,
			IsError:          true,
		}
		fields["is_error"] = true
		d.logger.WithError(err).WithFields(fields).Warn("Tool call failed")
	} else {
		response = &models.ToolResponse{
			SummaryText:       res.summary,
			StructuredPayload: res.payload,
			PresentationHint:  t.definition.PresentationHint,
		}
		fields["using_mock_data"] = res.usingMockData
		fields["is_error"] = false
		d.logger.WithFields(fields).Info("Tool call completed")
	}

	d.record(name, args, duration, res != nil && res.usingMockData, err)
	return response, nil
}

func (d *Dispatcher) record(name string, args map[string]interface{}, duration time.Duration, usingMockData bool, err error) {
	if d.recorder == nil {
		return
	}

	encoded, marshalErr := json.Marshal(args)
	if marshalErr != nil {
		encoded = []byte("{}")
	}
	inv := &models.Invocation{
		ID:            uuid.NewString(),
		Tool:          name,
		Arguments:     string(encoded),
		DurationMs:    duration.Milliseconds(),
		UsingMockData: usingMockData,
		IsError:       err != nil,
		CreatedAt:     time.Now().UTC(),
	}
	if err != nil {
		inv.ErrorMessage = err.Error()
	}
	d.recorder.Record(inv)
}

// withFallback runs op against the live provider and, when the provider cannot
// serve it, reruns the whole op against the demo dataset so live and demo
// records are never mixed. The bool reports whether demo data was used.
// A cancelled caller gets the live error back instead of demo data.
func withFallback[T any](ctx context.Context, d *Dispatcher, op string, fn func(provider.Client) (T, error)) (T, bool, error) {
	if d.live != nil {
		v, err := fn(d.live)
		if err == nil || !provider.IsUnavailable(err) || ctx.Err() != nil {
			return v, false, err
		}
		d.logger.WithError(err).WithField("operation", op).Warn("Provider unavailable, serving demo data")
	}

	v, err := fn(d.demo)
	return v, true, err
}
