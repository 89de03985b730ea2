package submission

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// Invoice is the outbound document handed to the engine by the caller.
// Document carries the FA(3) XML body as-is.
type Invoice struct {
	ID          int64       `json:"invoice_id" validate:"gt=0"`
	Number      string      `json:"invoice_number" validate:"required,max=256"`
	IssueDate   time.Time   `json:"issue_date" validate:"required"`
	SellerNIP   string      `json:"seller_nip" validate:"required,nip"`
	// Document is limited to 1 MiB, the KSeF cap for a single payload.
	Document    []byte      `json:"document" validate:"required,max=1048576"`
	OfflineMode OfflineMode `json:"offline_mode,omitempty" validate:"offline_mode"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nip", func(fl validator.FieldLevel) bool {
		return ValidNIP(fl.Field().String())
	})
	_ = v.RegisterValidation("offline_mode", func(fl validator.FieldLevel) bool {
		return OfflineMode(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the document before anything is sent to KSeF.
func (inv *Invoice) Validate() *ksef.Error {
	if inv == nil {
		return ksef.NewError(ksef.KindValidation, "", "invoice is required")
	}
	if err := validate.Struct(inv); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return &ksef.Error{
				Kind:    ksef.KindValidation,
				Message: "invoice failed validation",
				Details: strings.Join(fields, ", "),
				Err:     err,
			}
		}
		return ksef.Wrap(ksef.KindValidation, err, "invoice failed validation")
	}
	if err := checkWellFormed(inv.Document); err != nil {
		return ksef.Wrap(ksef.KindValidation, err, "invoice document is not well-formed XML")
	}
	return nil
}

func checkWellFormed(doc []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	root := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			root = true
		}
	}
	if !root {
		return errors.New("document has no root element")
	}
	return nil
}

var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// ValidNIP reports whether s is a ten digit Polish tax identifier with a valid checksum.
func ValidNIP(s string) bool {
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 10; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if i < 9 {
			sum += int(c-'0') * nipWeights[i]
		}
	}
	check := sum % 11
	return check != 10 && check == int(s[9]-'0')
}
