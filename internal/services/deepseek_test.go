package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestDeepseekService(t *testing.T) {
	convey.Convey("Given a chat completions endpoint", t, func() {
		var got deepseekRequest
		var auth string
		status := http.StatusOK
		reply := `{"choices": [{"message": {"content": "{\"skills\": [\"Go\"]}"}}], "usage": {"total_tokens": 42}}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		defer server.Close()

		client := NewDeepseekService(server.Client(), server.URL, "secret", "deepseek-chat", 0.2)
		prompt := Prompt{Kind: KindExtractSkills, Text: "extract skills"}

		convey.Convey("Then the reply content is returned", func() {
			text, err := client.GenerateText(context.Background(), prompt)

			convey.So(err, convey.ShouldBeNil)
			convey.So(text, convey.ShouldEqual, `{"skills": ["Go"]}`)
			convey.So(auth, convey.ShouldEqual, "Bearer secret")
			convey.So(got.Model, convey.ShouldEqual, "deepseek-chat")
			convey.So(got.Messages, convey.ShouldHaveLength, 1)
			convey.So(got.Messages[0].Content, convey.ShouldEqual, "extract skills")
		})

		convey.Convey("Then rate limiting is an upstream call error", func() {
			status = http.StatusTooManyRequests
			_, err := client.GenerateText(context.Background(), prompt)
			convey.So(errors.Is(err, ErrUpstreamCall), convey.ShouldBeTrue)
		})

		convey.Convey("Then an empty choice list is a format error", func() {
			reply = `{"choices": []}`
			_, err := client.GenerateText(context.Background(), prompt)
			convey.So(errors.Is(err, ErrUpstreamFormat), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an endpoint slower than the call timeout", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		caller := newCompletionCaller(NewDeepseekService(server.Client(), server.URL, "k", "m", 0), 20*time.Millisecond, nil)
		_, err := caller.call(context.Background(), Prompt{Kind: KindChat, Text: "hi"})

		convey.So(errors.Is(err, ErrUpstreamTimeout), convey.ShouldBeTrue)
	})
}

func TestClassifyUpstreamError(t *testing.T) {
	convey.Convey("A provider error raised after the deadline is a timeout", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		err := classifyUpstreamError(ctx, KindChat, fmt.Errorf("%w: gemini: request aborted", ErrUpstreamCall))
		convey.So(errors.Is(err, ErrUpstreamTimeout), convey.ShouldBeTrue)
	})

	convey.Convey("Format errors pass through unchanged", t, func() {
		err := classifyUpstreamError(context.Background(), KindChat, ErrUpstreamFormat)
		convey.So(err, convey.ShouldEqual, ErrUpstreamFormat)
	})

	convey.Convey("Unknown errors become call errors", t, func() {
		err := classifyUpstreamError(context.Background(), KindChat, errors.New("boom"))
		convey.So(errors.Is(err, ErrUpstreamCall), convey.ShouldBeTrue)
	})
}
