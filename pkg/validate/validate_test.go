package validate

import "testing"

func f64(v float64) *float64 { return &v }

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type productInput struct {
	Title       string   `json:"title"       validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Image       string   `json:"image"       validate:"required,url"`
}

func TestStructRegisterInput(t *testing.T) {
	tests := []struct {
		name    string
		in      registerInput
		wantErr []string // fields expected in the error map
	}{
		{
			name: "valid",
			in:   registerInput{Name: "Priya", Email: "priya@example.com", Password: "secret123"},
		},
		{
			name:    "all missing",
			in:      registerInput{},
			wantErr: []string{"name", "email", "password"},
		},
		{
			name:    "name too short",
			in:      registerInput{Name: "P", Email: "priya@example.com", Password: "secret123"},
			wantErr: []string{"name"},
		},
		{
			name: "name at minimum length",
			in:   registerInput{Name: "Om", Email: "om@example.com", Password: "secret123"},
		},
		{
			name:    "bad email",
			in:      registerInput{Name: "Priya", Email: "not-an-email", Password: "secret123"},
			wantErr: []string{"email"},
		},
		{
			name:    "short password",
			in:      registerInput{Name: "Priya", Email: "priya@example.com", Password: "abc"},
			wantErr: []string{"password"},
		},
		{
			name:    "whitespace only name counts as missing",
			in:      registerInput{Name: "   ", Email: "priya@example.com", Password: "secret123"},
			wantErr: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.in)
			if len(errs) != len(tt.wantErr) {
				t.Fatalf("errs = %v, want errors on %v", errs, tt.wantErr)
			}
			for _, field := range tt.wantErr {
				if errs[field] == "" {
					t.Errorf("no error for %q, got %v", field, errs)
				}
			}
		})
	}
}

func TestStructProductInput(t *testing.T) {
	valid := productInput{
		Title:       "Banarasi Silk Saree",
		Description: "Handwoven silk saree with zari border.",
		Price:       f64(4999),
		Image:       "https://cdn.example.com/saree.jpg",
	}

	t.Run("valid input", func(t *testing.T) {
		if errs := Struct(valid); len(errs) != 0 {
			t.Errorf("errs = %v, want none", errs)
		}
	})

	t.Run("zero price is present", func(t *testing.T) {
		in := valid
		in.Price = f64(0)
		if errs := Struct(in); len(errs) != 0 {
			t.Errorf("price 0 should pass required+gte=0, got %v", errs)
		}
	})

	t.Run("nil price fails required", func(t *testing.T) {
		in := valid
		in.Price = nil
		errs := Struct(in)
		if errs["price"] == "" {
			t.Errorf("missing price should fail required, got %v", errs)
		}
	})

	t.Run("negative price fails gte", func(t *testing.T) {
		in := valid
		in.Price = f64(-1)
		errs := Struct(in)
		if errs["price"] == "" {
			t.Errorf("negative price should fail gte=0, got %v", errs)
		}
	})

	t.Run("short description", func(t *testing.T) {
		in := valid
		in.Description = "too short"
		errs := Struct(in)
		if errs["description"] == "" {
			t.Errorf("9-char description should fail min=10, got %v", errs)
		}
	})

	t.Run("missing image fails required", func(t *testing.T) {
		in := valid
		in.Image = ""
		errs := Struct(in)
		if errs["image"] == "" {
			t.Errorf("empty image should fail required, got %v", errs)
		}
	})

	t.Run("bad image url", func(t *testing.T) {
		in := valid
		in.Image = "not a url"
		errs := Struct(in)
		if errs["image"] == "" {
			t.Errorf("bad url should fail, got %v", errs)
		}
	})

	t.Run("plain http url", func(t *testing.T) {
		in := valid
		in.Image = "http://cdn.example.com/saree.jpg"
		if errs := Struct(in); len(errs) != 0 {
			t.Errorf("valid url should pass, got %v", errs)
		}
	})
}

func TestRuleEdgeCases(t *testing.T) {
	t.Run("first failing rule wins", func(t *testing.T) {
		type in struct {
			Name string `json:"name" validate:"required,min=5"`
		}
		errs := Struct(in{})
		if errs["name"] != "The name field is required." {
			t.Errorf("errs = %v, want the required message only", errs)
		}
	})

	t.Run("in rule with multi-value param", func(t *testing.T) {
		type in struct {
			Sort string `json:"sort" validate:"in=title,price,createdAt"`
		}
		if errs := Struct(in{Sort: "price"}); len(errs) != 0 {
			t.Errorf("allowed value rejected: %v", errs)
		}
		if errs := Struct(in{Sort: "owner"}); errs["sort"] == "" {
			t.Errorf("disallowed value accepted: %v", errs)
		}
	})

	t.Run("between on string length", func(t *testing.T) {
		type in struct {
			Bio string `json:"bio" validate:"between=2,5"`
		}
		if errs := Struct(in{Bio: "abcd"}); len(errs) != 0 {
			t.Errorf("in-range length rejected: %v", errs)
		}
		if errs := Struct(in{Bio: "abcdef"}); errs["bio"] == "" {
			t.Errorf("over-length accepted: %v", errs)
		}
	})

	t.Run("nullable skips later rules when empty", func(t *testing.T) {
		type in struct {
			Website string `json:"website" validate:"nullable,url"`
		}
		if errs := Struct(in{}); len(errs) != 0 {
			t.Errorf("empty nullable field rejected: %v", errs)
		}
		if errs := Struct(in{Website: "not a url"}); errs["website"] == "" {
			t.Errorf("bad url accepted: %v", errs)
		}
	})

	t.Run("confirmed matches sibling", func(t *testing.T) {
		type in struct {
			Password             string `json:"password" validate:"required,confirmed"`
			PasswordConfirmation string `json:"password_confirmation"`
		}
		if errs := Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); len(errs) != 0 {
			t.Errorf("matching confirmation rejected: %v", errs)
		}
		if errs := Struct(in{Password: "secret123", PasswordConfirmation: "other"}); errs["password"] == "" {
			t.Errorf("mismatched confirmation accepted: %v", errs)
		}
	})

	t.Run("non-struct input is a no-op", func(t *testing.T) {
		if errs := Struct("not a struct"); len(errs) != 0 {
			t.Errorf("errs = %v, want none", errs)
		}
	})

	t.Run("field names come from json tags", func(t *testing.T) {
		type in struct {
			FullName string `json:"fullName" validate:"required"`
		}
		errs := Struct(in{})
		if errs["fullName"] == "" {
			t.Errorf("errs = %v, want key fullName", errs)
		}
	})
}
