package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestResumeParserService(t *testing.T) {
	convey.Convey("Given a resume parsing API", t, func() {
		var apiKey, filename string
		var content []byte
		status := http.StatusOK

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey = r.Header.Get("apikey")
			if file, header, err := r.FormFile("file"); err == nil {
				filename = header.Filename
				content, _ = io.ReadAll(file)
				file.Close()
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"data": {
				"name": "Jane Doe",
				"email": "jane@example.com",
				"phone_number": "555-0100",
				"workExperience": [{"jobTitle": "Analyst", "organization": "Acme", "dateRange": "2021-2023"}],
				"education": [{"accreditation": "BSc Biology", "institution": "State University"}]
			}}`))
		}))
		defer server.Close()

		parser := NewResumeParserService(server.Client(), server.URL, "parser-key")
		file := &UploadedFile{Filename: "resume.pdf", Data: []byte("%PDF-1.4 fake")}

		convey.Convey("Then the document is uploaded and the reply normalized", func() {
			summary, err := parser.Parse(context.Background(), file)

			convey.So(err, convey.ShouldBeNil)
			convey.So(apiKey, convey.ShouldEqual, "parser-key")
			convey.So(filename, convey.ShouldEqual, "resume.pdf")
			convey.So(string(content), convey.ShouldEqual, "%PDF-1.4 fake")

			convey.So(summary.Name, convey.ShouldEqual, "Jane Doe")
			convey.So(summary.Phone, convey.ShouldEqual, "555-0100")
			convey.So(summary.Experience, convey.ShouldHaveLength, 1)
			convey.So(summary.Experience[0].Title, convey.ShouldEqual, "Analyst")
			convey.So(summary.Experience[0].Company, convey.ShouldEqual, "Acme")
			convey.So(summary.Education[0].Degree, convey.ShouldEqual, "BSc Biology")
			convey.So(summary.Education[0].Organization, convey.ShouldEqual, "State University")
		})

		convey.Convey("Then a failing API is an upstream call error", func() {
			status = http.StatusBadGateway
			_, err := parser.Parse(context.Background(), file)
			convey.So(errors.Is(err, ErrUpstreamCall), convey.ShouldBeTrue)
		})
	})
}

func TestNormalizeATSSummary(t *testing.T) {
	convey.Convey("Missing sections become empty lists", t, func() {
		summary, err := NormalizeATSSummary(`{"fullName": "Sam Lee"}`)

		convey.So(err, convey.ShouldBeNil)
		convey.So(summary.Name, convey.ShouldEqual, "Sam Lee")
		convey.So(summary.Email, convey.ShouldEqual, "")
		convey.So(summary.Experience, convey.ShouldNotBeNil)
		convey.So(summary.Education, convey.ShouldBeEmpty)
	})

	convey.Convey("Contact fields inside a data envelope are read", t, func() {
		summary, err := NormalizeATSSummary(`{
			"data": {"name": "Jane Doe", "email": "jane@example.com", "phone": "555-0100"},
			"meta": {"ready": true, "identifier": "abc123"}
		}`)

		convey.So(err, convey.ShouldBeNil)
		convey.So(summary.Name, convey.ShouldEqual, "Jane Doe")
		convey.So(summary.Email, convey.ShouldEqual, "jane@example.com")
		convey.So(summary.Phone, convey.ShouldEqual, "555-0100")
	})

	convey.Convey("A non-JSON reply is a format error", t, func() {
		_, err := NormalizeATSSummary("<html>Service Unavailable</html>")
		convey.So(errors.Is(err, ErrUpstreamFormat), convey.ShouldBeTrue)
	})
}
