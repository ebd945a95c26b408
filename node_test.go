package muscle_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/muscle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNodeRestLength(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := muscle.NewNode(muscle.WithLogger(zap.New(core)))

	// Volume mode needs a stored rest length.
	p := straightRig(5)
	p.CalculateVolume = true
	res, err := n.Evaluate(p)
	if !errors.Is(err, muscle.ErrZeroRestLength) || res != nil {
		t.Fatalf("expected ErrZeroRestLength and no result, got %v %v", res, err)
	}

	p.CalculateVolume = false
	first, err := n.Evaluate(p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n.RestLength()-5) > tol {
		t.Fatalf("rest length should track the live length, got %v", n.RestLength())
	}

	stretched := straightRig(10)
	stretched.CalculateVolume = true
	stretched.RestLength = 1000 // Ignored, the node uses its stored value.
	res, err = n.Evaluate(stretched)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Scale-math.Sqrt(0.5)) > tol {
		t.Errorf("scale: got %v, want %v", res.Scale, math.Sqrt(0.5))
	}
	if math.Abs(n.RestLength()-5) > tol {
		t.Errorf("rest length must freeze in volume mode, got %v", n.RestLength())
	}

	// A failed evaluation keeps the previous result and rest length.
	broken := straightRig(10)
	broken.Attachments = broken.Attachments[:2]
	got, err := n.Evaluate(broken)
	if !errors.Is(err, muscle.ErrInvalidAttachment) {
		t.Fatalf("expected ErrInvalidAttachment, got %v", err)
	}
	if got != res || n.Last() != res {
		t.Error("failed evaluation should return the last valid result")
	}
	if got == first {
		t.Error("last valid result should be the most recent success")
	}
	if math.Abs(n.RestLength()-5) > tol {
		t.Errorf("failed evaluation changed the rest length to %v", n.RestLength())
	}
	if warns := logs.FilterLevelExact(zapcore.WarnLevel).Len(); warns != 2 {
		t.Errorf("expected 2 warnings, got %d", warns)
	}
	if debugs := logs.FilterMessage("muscle evaluated").Len(); debugs != 2 {
		t.Errorf("expected 2 evaluation logs, got %d", debugs)
	}
}

func TestNodeSeededRestLength(t *testing.T) {
	n := muscle.NewNode(muscle.WithRestLength(10))
	p := straightRig(10)
	p.CalculateVolume = true
	res, err := n.Evaluate(p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Scale-1) > tol {
		t.Errorf("scale: got %v, want 1", res.Scale)
	}
	n.SetRestLength(2.5)
	res, err = n.Evaluate(p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Scale-0.5) > tol {
		t.Errorf("scale: got %v, want 0.5", res.Scale)
	}
}
