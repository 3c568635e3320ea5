package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"gp-deepseek-translate/pkg/logging/logging"
)

const (
	WarmupSource = "warmup"

	// MaxWarmupConcurrency caps the self-invocations one ping may trigger.
	MaxWarmupConcurrency = 10

	// warmupHold keeps this instance busy so the self-invocations land on
	// other instances.
	warmupHold = 75 * time.Millisecond
)

// WarmupEvent is a scheduled ping. Concurrency asks for that many extra
// instances.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency,omitempty"`
}

type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

type warmupReply struct {
	StatusCode int            `json:"statusCode"`
	Body       WarmupResponse `json:"body"`
}

type invoker interface {
	Invoke(ctx context.Context, in *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

var newInvoker = func(ctx context.Context) (invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

// IsWarmupEvent reports whether event is a warmup ping. Concurrency is
// clamped to [0, MaxWarmupConcurrency].
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var raw struct {
		Source      *string  `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &raw); err != nil {
		return nil, false
	}
	if raw.Source == nil || *raw.Source != WarmupSource {
		return nil, false
	}

	ev := &WarmupEvent{Source: WarmupSource}
	if raw.Concurrency != nil {
		ev.Concurrency = int(min(max(*raw.Concurrency, 0), MaxWarmupConcurrency))
	}
	return ev, true
}

// HandleWarmup answers a ping, first fanning out to ev.Concurrency other
// instances. A failed fan-out is logged and reported as one warm instance.
func HandleWarmup(ctx context.Context, ev *WarmupEvent) (any, error) {
	n := min(max(ev.Concurrency, 0), MaxWarmupConcurrency)
	warmed := 1

	if n > 0 {
		if err := selfInvoke(ctx, n); err != nil {
			logging.L(ctx).Warn("warmup fan-out failed", zap.Int("concurrency", n), zap.Error(err))
		} else {
			warmed += n
		}
	}

	time.Sleep(warmupHold)
	return warmupReply{
		StatusCode: 200,
		Body:       WarmupResponse{Status: "warm", InstancesWarmed: warmed},
	}, nil
}

// selfInvoke fires n asynchronous invocations of this function. Children get
// no concurrency so they do not fan out again.
func selfInvoke(ctx context.Context, n int) error {
	client, err := newInvoker(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}
	in := &lambdasdk.InvokeInput{
		FunctionName:   aws.String(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Invoke(ctx, in)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
