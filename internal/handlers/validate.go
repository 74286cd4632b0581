// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"tenantpress/internal/models"
	"tenantpress/internal/theme"
)

// designFields are the form fields of the design page, in display order.
var designFields = []string{"theme", "primaryColor", "secondaryColor", "backgroundColor", "textColor", "footerText"}

// fieldLabels maps token struct fields to the labels shown in errors.
var fieldLabels = map[string]string{
	"PrimaryColor":    "Primary colour",
	"SecondaryColor":  "Secondary colour",
	"BackgroundColor": "Background colour",
	"TextColor":       "Text colour",
	"FooterText":      "Footer text",
}

// designForm collects the design fields from the query string or a
// submitted form. Values are trimmed.
func designForm(r *http.Request) map[string]string {
	form := make(map[string]string, len(designFields))
	for _, f := range designFields {
		form[f] = strings.TrimSpace(r.FormValue(f))
	}
	return form
}

// parseDesign turns the design form into a theme ID and the overrides to
// store. Tokens the form does not edit are carried over from existing; a
// blank field clears its override. A nil overrides result means none.
func parseDesign(form map[string]string, existing *theme.Tokens, reg *theme.Registry) (string, *theme.Tokens, []string) {
	var errs []string

	themeID := form["theme"]
	if !reg.IsEnabled(themeID) {
		errs = append(errs, "Choose one of the available themes.")
	}

	var t theme.Tokens
	if existing != nil {
		t = *existing
	}
	t.PrimaryColor = optional(form["primaryColor"])
	t.SecondaryColor = optional(form["secondaryColor"])
	t.BackgroundColor = optional(form["backgroundColor"])
	t.TextColor = optional(form["textColor"])
	t.FooterText = optional(form["footerText"])

	if err := models.ValidateTokens(t); err != nil {
		errs = append(errs, validationMessages(err)...)
	}
	if len(errs) > 0 {
		return themeID, nil, errs
	}
	if t.IsZero() {
		return themeID, nil, nil
	}
	return themeID, &t, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// validationMessages converts validator errors into form messages.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "csscolor":
			msgs = append(msgs, fmt.Sprintf("%s must be a hex colour like #1a2b3c.", label))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long (max %s characters).", label, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return msgs
}

// overrideValues is the inverse of parseDesign for the fields the design
// form edits.
func overrideValues(t *theme.Tokens) map[string]string {
	form := make(map[string]string, len(designFields))
	if t == nil {
		return form
	}
	for field, v := range map[string]*string{
		"primaryColor":    t.PrimaryColor,
		"secondaryColor":  t.SecondaryColor,
		"backgroundColor": t.BackgroundColor,
		"textColor":       t.TextColor,
		"footerText":      t.FooterText,
	} {
		if v != nil {
			form[field] = *v
		}
	}
	return form
}
