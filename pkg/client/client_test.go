package client

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/h2non/gock"

	"wordfilter/pkg/censor"
	"wordfilter/pkg/models"
)

const serviceURL = "http://localhost:8055"

func TestClient_Detect(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/detect").
		Reply(http.StatusOK).
		JSON(models.DetectResponse{Detected: true})

	got, err := New(serviceURL).Detect(context.Background(), "hoge ng_word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("want detected text")
	}
	if !gock.IsDone() {
		t.Error("want all mocked requests to be called")
	}
}

func TestClient_DetectMessageNotFormatted(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/detect/message").
		Reply(http.StatusBadRequest).
		BodyString(`not a formatted message: "no separator"`)

	_, err := New(serviceURL).DetectMessage(context.Background(), "no separator")
	if !errors.Is(err, censor.ErrNotFormatted) {
		t.Fatalf("want ErrNotFormatted, got %v", err)
	}
}

func TestClient_Censor(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/censor").
		Reply(http.StatusOK).
		JSON(models.TextResponse{Text: "hoge <censored>"})

	got, err := New(serviceURL+"/").Censor(context.Background(), "hoge ng_word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hoge <censored>" {
		t.Errorf("want %q, got %q", "hoge <censored>", got)
	}
}

func TestClient_CensorMessage(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/censor/message").
		Reply(http.StatusOK).
		JSON(models.MessageResponse{Message: "ng_word: <censored> huga."})

	got, err := New(serviceURL).CensorMessage(context.Background(), "ng_word: ng_word huga.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ng_word: <censored> huga." {
		t.Errorf("want %q, got %q", "ng_word: <censored> huga.", got)
	}
}

func TestClient_History(t *testing.T) {
	defer gock.Off()

	want := []censor.Record{
		{Text: "ng_word ng_word", Frequency: map[string]int{"ng_word": 2}},
	}
	gock.New(serviceURL).
		Get("/history").
		Reply(http.StatusOK).
		JSON(want)

	got, err := New(serviceURL).History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want history %+v, got %+v", want, got)
	}
}

func TestClient_CheckComment(t *testing.T) {
	defer gock.Off()

	postID, _ := uuid.NewV4()
	comment := models.Comment{PostID: postID, Author: "Some Dude", Text: "ng_word"}

	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"Accepted", http.StatusOK, true},
		{"Rejected", http.StatusUnprocessableEntity, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gock.New(serviceURL).Post("/check").Reply(tt.status)

			got, err := New(serviceURL).CheckComment(context.Background(), comment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want accepted %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/censor").
		Reply(http.StatusInternalServerError).
		BodyString("Internal Server Error")

	_, err := New(serviceURL).Censor(context.Background(), "text")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("want *StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError || se.Body != "Internal Server Error" {
		t.Errorf("unexpected status error %+v", se)
	}
}

func TestClient_CensorMessageInvalidRequest(t *testing.T) {
	defer gock.Off()

	gock.New(serviceURL).
		Post("/censor/message").
		Reply(http.StatusBadRequest).
		BodyString("Bad Request: invalid JSON")

	_, err := New(serviceURL).CensorMessage(context.Background(), "user: text")
	if errors.Is(err, censor.ErrNotFormatted) {
		t.Fatalf("want plain status error, got format error %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Errorf("want *StatusError with status %d, got %v", http.StatusBadRequest, err)
	}
}
