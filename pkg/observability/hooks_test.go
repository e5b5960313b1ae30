package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopConvertHooks{}
	p.OnPackageStart(ctx, "newtonsoft.json@13.0.1")
	p.OnPackageComplete(ctx, "newtonsoft.json@13.0.1", true, time.Second, nil)
	p.OnPayloadCopied(ctx, "newtonsoft.json@13.0.1", 2)
	p.OnRunComplete(ctx, "Newtonsoft.Json@13.0.1", 1, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "nuspec")
	c.OnCacheMiss(ctx, "index")
	c.OnCacheSet(ctx, "nuspec", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.nuget.org", "/v3/index.json")
	h.OnResponse(ctx, "GET", "api.nuget.org", "/v3/index.json", 200, time.Second)
	h.OnError(ctx, "GET", "api.nuget.org", "/v3/index.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Convert() should return NoopConvertHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customConvert := &testConvertHooks{}
	SetConvertHooks(customConvert)
	if Convert() != customConvert {
		t.Error("SetConvertHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Reset() should restore NoopConvertHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testConvertHooks{}
	SetConvertHooks(custom)
	SetConvertHooks(nil)

	if Convert() != custom {
		t.Error("SetConvertHooks(nil) should be ignored")
	}
}

type testConvertHooks struct{ NoopConvertHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
