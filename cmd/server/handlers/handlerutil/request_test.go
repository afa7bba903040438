package handlerutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"notedeck/cmd/server/handlers/httperr"
	"notedeck/internal/config"
	"notedeck/internal/logger"
	"notedeck/internal/services/fault"
	"notedeck/internal/utils/crypto"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init(config.Config{LogLevel: "error", LogFormat: "text"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, crypto.RegisterPasswordValidator(v))
	return v
}

func TestGetUserID(t *testing.T) {
	app := fiber.New()

	t.Run("valid hex id", func(t *testing.T) {
		want := bson.NewObjectID()
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)
		c.Locals("userID", want.Hex())

		got, err := GetUserID(c)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing identity", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)

		_, err := GetUserID(c)

		var e httperr.E
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 401, e.Status)
	})

	t.Run("malformed identity", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)
		c.Locals("userID", "not-a-hex-id")

		_, err := GetUserID(c)

		var e httperr.E
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 401, e.Status)
	})
}

type createNoteBody struct {
	Title    string   `json:"title" validate:"required,max=255"`
	Color    string   `json:"color" validate:"omitempty,hexcolor"`
	Tags     []string `json:"tags" validate:"required,min=1,dive,required"`
	Password string   `json:"password" validate:"omitempty,password"`
}

func TestParseAndValidateBody(t *testing.T) {
	v := newValidator(t)

	run := func(t *testing.T, payload string) error {
		t.Helper()
		app := fiber.New()
		var captured error
		app.Post("/", func(c *fiber.Ctx) error {
			var req createNoteBody
			captured = ParseAndValidateBody(c, &req, v, "test")
			return nil
		})

		req := httptest.NewRequest("POST", "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		_, err := app.Test(req)
		require.NoError(t, err)
		return captured
	}

	t.Run("valid body", func(t *testing.T) {
		err := run(t, `{"title":"Groceries","tags":["home"]}`)
		assert.NoError(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		err := run(t, `{"title":`)

		var e httperr.E
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 400, e.Status)
		assert.Equal(t, "Bad Request", e.Message)
	})

	t.Run("first violation only", func(t *testing.T) {
		// both title and tags are invalid, only the first is reported
		err := run(t, `{"color":"nope"}`)

		var e httperr.E
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 400, e.Status)
		assert.Equal(t, "Title is a required field", e.Message)
	})
}

func TestFirstViolation(t *testing.T) {
	v := newValidator(t)

	type subTaskBody struct {
		Title string `validate:"required"`
	}
	type taskBody struct {
		Title       string        `validate:"required,max=255"`
		Priority    string        `validate:"omitempty,oneof=Low Medium High"`
		SubTasks    []subTaskBody `validate:"required,min=1,dive"`
		IsCompleted string        `validate:"omitempty,oneof=true false"`
	}
	type authBody struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,password"`
	}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "missing title",
			input: taskBody{SubTasks: []subTaskBody{{Title: "x"}}},
			want:  "Title is a required field",
		},
		{
			name:  "title too long",
			input: taskBody{Title: strings.Repeat("a", 256), SubTasks: []subTaskBody{{Title: "x"}}},
			want:  "Title should be at most 255 characters long",
		},
		{
			name:  "no sub-tasks",
			input: taskBody{Title: "Errands"},
			want:  "At least one sub-task is required",
		},
		{
			name:  "bad priority",
			input: taskBody{Title: "Errands", Priority: "Urgent", SubTasks: []subTaskBody{{Title: "x"}}},
			want:  "Priority must be one of Low, Medium, High",
		},
		{
			name:  "bad completion flag",
			input: taskBody{Title: "Errands", SubTasks: []subTaskBody{{Title: "x"}}, IsCompleted: "maybe"},
			want:  "isCompleted must be true or false",
		},
		{
			name:  "no tags",
			input: createNoteBody{Title: "Groceries"},
			want:  "At least one tag is required",
		},
		{
			name:  "bad color",
			input: createNoteBody{Title: "Groceries", Tags: []string{"home"}, Color: "red-ish"},
			want:  "Color must be a valid hex color",
		},
		{
			name:  "bad email",
			input: authBody{Email: "not-an-email", Password: "Password123"},
			want:  "A valid email is required",
		},
		{
			name:  "weak password",
			input: authBody{Email: "a@b.com", Password: "short"},
			want:  "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, and a digit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, FirstViolation(err))
		})
	}

	t.Run("non-validator error", func(t *testing.T) {
		assert.Equal(t, "Invalid input", FirstViolation(errors.New("boom")))
	})
}

func TestExtractResourceID(t *testing.T) {
	app := fiber.New()
	var gotID bson.ObjectID
	var gotErr error
	app.Get("/notes/:id", func(c *fiber.Ctx) error {
		gotID, gotErr = ExtractResourceID(c, "id", "Note")
		return nil
	})

	t.Run("valid id", func(t *testing.T) {
		want := bson.NewObjectID()
		_, err := app.Test(httptest.NewRequest("GET", "/notes/"+want.Hex(), nil))
		require.NoError(t, err)
		require.NoError(t, gotErr)
		assert.Equal(t, want, gotID)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest("GET", "/notes/garbage", nil))
		require.NoError(t, err)

		var nf *fault.NotFound
		require.ErrorAs(t, gotErr, &nf)
		assert.Equal(t, "Note", nf.Kind)
	})
}

func TestRespondEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Respond(c, 201, "Note created successfully", fiber.Map{"id": "abc"})
	})
	app.Get("/empty", func(c *fiber.Ctx) error {
		return Respond(c, 200, "Note deleted successfully", nil)
	})

	t.Run("with data", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, 201, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Note created successfully", body["message"])
		assert.NotNil(t, body["data"])
	})

	t.Run("data omitted when nil", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/empty", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		_, present := body["data"]
		assert.False(t, present)
	})
}
