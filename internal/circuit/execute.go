package circuit

import (
	"context"
	"fmt"

	"github.com/roach88/synqs/internal/device"
)

// Report is the outcome of executing a circuit.
type Report struct {
	Circuit      string              `json:"circuit"`
	Device       string              `json:"device"`
	JobID        string              `json:"job_id"`
	Status       device.ResultStatus `json:"status"`
	Measurements []MeasurementResult `json:"measurements,omitempty"`
}

// MeasurementResult is the outcome of one measurement request.
type MeasurementResult struct {
	Kind          string             `json:"kind"`
	Observable    string             `json:"observable,omitempty"`
	Wires         []int              `json:"wires"`
	Values        []float64          `json:"values,omitempty"`
	Samples       [][]float64        `json:"samples,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Execute runs the circuit on dev. With a NoWait device the report is
// Pending and carries only the job id.
func Execute(ctx context.Context, dev *device.Device, c *Circuit) (*Report, error) {
	if c.Device != dev.ShortName() {
		return nil, fmt.Errorf("circuit %q targets %s, device is %s", c.Name, c.Device, dev.ShortName())
	}

	dev.PreApply()
	for i, op := range c.Operations {
		if err := dev.Apply(op.Op, op.Wires, floats(op.Params)); err != nil {
			return nil, fmt.Errorf("operations[%d]: %w", i, err)
		}
	}

	res, err := dev.PreMeasure(ctx)
	if err != nil {
		return nil, err
	}
	if res.Pending() {
		return &Report{Circuit: c.Name, Device: dev.ShortName(), JobID: res.JobID, Status: device.StatusPending}, nil
	}
	return Collect(ctx, dev, c.Name, c.Measurements)
}

// Collect evaluates measurements on a device that has a submitted job.
// It stops at the first Pending result.
func Collect(ctx context.Context, dev *device.Device, name string, measurements []Measurement) (*Report, error) {
	report := &Report{
		Circuit: name,
		Device:  dev.ShortName(),
		JobID:   dev.JobID(),
		Status:  device.StatusDone,
	}

	for i, m := range measurements {
		kind, obs := m.Kind()
		var (
			res device.Result
			err error
		)
		wires := m.Wires
		switch kind {
		case KindExpval:
			res, err = dev.Expval(ctx, obs, wires, nil)
		case KindVar:
			res, err = dev.Var(ctx, obs, wires, nil)
		case KindSample:
			res, err = dev.Sample(ctx, obs, wires, nil)
		case KindProbs:
			wires = m.Probs
			res, err = dev.Probability(ctx, wires)
		default:
			err = fmt.Errorf("unknown measurement kind")
		}
		if err != nil {
			return nil, fmt.Errorf("measurements[%d]: %w", i, err)
		}
		if res.Pending() {
			report.Status = device.StatusPending
			report.Measurements = nil
			return report, nil
		}

		mr := MeasurementResult{
			Kind:       kind,
			Observable: obs,
			Wires:      wires,
			Values:     res.Values,
			Samples:    res.Samples,
		}
		if res.Probabilities != nil {
			mr.Probabilities = res.Probabilities.Map()
		}
		report.Measurements = append(report.Measurements, mr)
	}
	report.JobID = dev.JobID()
	return report, nil
}
