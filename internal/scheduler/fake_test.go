package scheduler

import (
	"context"
	"time"
)

type call struct {
	op    string
	id    string
	key   string
	value string
}

type fakeProvider struct {
	kind      Kind
	resources []Resource
	listErr   error
	readErr   map[string]error
	writeErr  error
	startErr  error
	stopErr   error
	calls     []call
}

func (f *fakeProvider) Kind() Kind {
	if f.kind == "" {
		return KindEC2
	}
	return f.kind
}

func (f *fakeProvider) List(ctx context.Context) ([]Resource, error) {
	f.calls = append(f.calls, call{op: "list"})
	return f.resources, f.listErr
}

func (f *fakeProvider) ReadTag(ctx context.Context, r Resource, key string) (string, bool, error) {
	if err := f.readErr[r.ID]; err != nil {
		return "", false, err
	}
	v, ok := r.Tags[key]
	return v, ok, nil
}

func (f *fakeProvider) WriteTag(ctx context.Context, r Resource, key, value string) error {
	f.calls = append(f.calls, call{op: "tag", id: r.ID, key: key, value: value})
	return f.writeErr
}

func (f *fakeProvider) Start(ctx context.Context, r Resource) error {
	f.calls = append(f.calls, call{op: "start", id: r.ID})
	return f.startErr
}

func (f *fakeProvider) Stop(ctx context.Context, r Resource) error {
	f.calls = append(f.calls, call{op: "stop", id: r.ID})
	return f.stopErr
}

func (f *fakeProvider) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeProvider) mutations() []call {
	var out []call
	for _, c := range f.calls {
		if c.op != "list" {
			out = append(out, c)
		}
	}
	return out
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func tagged(id string, state PowerState, schedule string) Resource {
	return Resource{
		ID:     id,
		Name:   id + "-name",
		State:  state,
		Status: state.String(),
		Tags:   map[string]string{"Name": id + "-name", "schedule": schedule},
	}
}

func untagged(id string, state PowerState) Resource {
	return Resource{
		ID:     id,
		State:  state,
		Status: state.String(),
		Tags:   map[string]string{"Name": id + "-name"},
	}
}
