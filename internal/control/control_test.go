package control

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/junsooki/asciicam/internal/input"
	"github.com/junsooki/asciicam/internal/loop"
	"github.com/junsooki/asciicam/internal/render"
	"github.com/junsooki/asciicam/internal/session"
)

func echoExecutor(ctx context.Context, cmd input.Command) (input.Result, error) {
	if cmd.Type == input.CmdSelectRenderer && cmd.Renderer == "svg" {
		return input.Result{Status: session.Status{Renderer: render.TypeText}}, render.ErrUnknownType
	}
	return input.Result{Status: session.Status{Renderer: render.Type(cmd.Renderer), Playing: true}}, nil
}

func startServer(t *testing.T, exec Executor) *Client {
	t.Helper()
	srv := NewServer(exec, time.Second, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := NewClient("ws" + strings.TrimPrefix(ts.URL, "http") + Path)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestClientServerCommand(t *testing.T) {
	c := startServer(t, echoExecutor)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := c.Do(ctx, input.Command{Type: input.CmdSelectRenderer, Renderer: "html"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Status.Renderer != render.TypeHTML || !res.Status.Playing {
		t.Errorf("result = %+v", res)
	}
}

func TestClientServerError(t *testing.T) {
	c := startServer(t, echoExecutor)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := c.Do(ctx, input.Command{Type: input.CmdSelectRenderer, Renderer: "svg"})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if !strings.Contains(cmdErr.Msg, "unknown renderer type") {
		t.Errorf("message = %q", cmdErr.Msg)
	}
	if cmdErr.Result == nil || cmdErr.Result.Status.Renderer != render.TypeText {
		t.Errorf("error reply lost the status: %+v", cmdErr.Result)
	}
}

func TestClientPing(t *testing.T) {
	c := startServer(t, echoExecutor)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestServerDispatchRejectsBadMessages(t *testing.T) {
	s := NewServer(echoExecutor, time.Second, nil)
	ctx := context.Background()

	if reply := s.dispatch(ctx, Message{Type: "dance", ID: "1"}); reply.Type != TypeError || reply.ID != "1" {
		t.Errorf("unknown type reply = %+v", reply)
	}
	if reply := s.dispatch(ctx, Message{Type: TypeCommand, ID: "2"}); reply.Type != TypeError {
		t.Errorf("empty command reply = %+v", reply)
	}
}

func TestOnLoopRunsOnQueue(t *testing.T) {
	var q loop.Queue
	ran := make(chan struct{})
	exec := OnLoop(q.Post, func(ctx context.Context, cmd input.Command) (input.Result, error) {
		close(ran)
		return input.Result{Status: session.Status{RampLength: 7}}, nil
	})

	done := make(chan input.Result, 1)
	go func() {
		res, _ := exec(context.Background(), input.Command{Type: input.CmdStatus})
		done <- res
	}()

	deadline := time.After(2 * time.Second)
	for q.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("command never queued")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	q.Drain()
	<-ran
	if res := <-done; res.Status.RampLength != 7 {
		t.Errorf("result = %+v", res)
	}
}

func TestOnLoopHonoursContext(t *testing.T) {
	var q loop.Queue
	exec := OnLoop(q.Post, echoExecutor)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exec(ctx, input.Command{Type: input.CmdStatus}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
