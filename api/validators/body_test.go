package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
)

type selectionBody struct {
	OptionID string `json:"option_id" validate:"required"`
	Value    string `json:"value"`
}

type addBody struct {
	ProductID  string          `json:"product_id" validate:"required"`
	Selections []selectionBody `json:"selections" validate:"dive"`
	Quantity   int             `json:"quantity" validate:"gte=0,lte=999"`
}

func decode(t *testing.T, body string) (addBody, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest addBody
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBodyAccepts(t *testing.T) {
	got, err := decode(t, `{"product_id":"oak-gazebo","selections":[{"option_id":"sizeType","value":"4x4"}],"quantity":2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProductID != "oak-gazebo" || len(got.Selections) != 1 || got.Quantity != 2 {
		t.Fatalf("unexpected decode result %+v", got)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"product_id":"oak-gazebo","colour":"red"}`)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	_, err := decode(t, `{"product_id":"oak-gazebo","selections":[{"value":"4x4"}],"quantity":1000}`)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if details["selections[0].option_id"] != "is required" {
		t.Fatalf("missing nested field detail: %v", details)
	}
	if details["quantity"] != "must be less than or equal to 999" {
		t.Fatalf("missing quantity detail: %v", details)
	}
}
