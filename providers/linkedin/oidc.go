package linkedin

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/giantswarm/linkedin-oauth/providers"
)

// defaultAPIErrorMessage is used when a failed userinfo response has no message.
const defaultAPIErrorMessage = "LinkedIn API error"

// oidcFetcher loads the user from the OpenID Connect userinfo endpoint.
type oidcFetcher struct {
	p *Provider
}

// userInfoClaims is the userinfo response. Every claim is optional.
type userInfoClaims struct {
	Sub           string
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
	Email         string
	EmailVerified *bool
}

// parseUserInfoClaims reads the claims loosely: a claim of an unexpected JSON type
// is converted where possible ("true" for email_verified, numbers for strings)
// instead of failing the whole body.
func parseUserInfoClaims(body []byte) (*userInfoClaims, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("userinfo body is not valid JSON")
	}

	fields := gjson.GetManyBytes(body, "sub", "name", "given_name", "family_name", "picture", "email", "email_verified")
	claims := &userInfoClaims{
		Sub:        fields[0].String(),
		Name:       fields[1].String(),
		GivenName:  fields[2].String(),
		FamilyName: fields[3].String(),
		Picture:    fields[4].String(),
		Email:      fields[5].String(),
	}
	if v := fields[6]; v.Exists() && v.Type != gjson.Null {
		verified := v.Bool()
		claims.EmailVerified = &verified
	}
	return claims, nil
}

func (f *oidcFetcher) fetchUser(ctx context.Context, req *userRequest) (*UserResponse, error) {
	req.logger.Info("[user getUser headers]", "user_agent", req.userAgent, "cache_control", "no-cache")

	status, body, err := f.p.get(ctx, req, "userinfo", f.p.UserInfoURL)
	if err != nil {
		return nil, err
	}

	if !providers.IsSuccess(status) {
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("userinfo request failed with status %d and a non-JSON body", status)
		}
		user := placeholderUser(body)
		req.logger.Error("[provider user error]",
			"status", status,
			"upstream_status", user.Status,
			"service_error_code", user.ServiceErrorCode,
			"code", user.Code,
			"message", user.Message)
		return user, nil
	}

	claims, err := parseUserInfoClaims(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	req.logger.Info("[provider user data]", "sub", claims.Sub, "name", claims.Name)

	return claims.userResponse(), nil
}

// userResponse maps the flat claims onto the LinkedIn user shape.
func (c *userInfoClaims) userResponse() *UserResponse {
	fullName := c.Name
	if fullName == "" {
		fullName = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	}

	user := &UserResponse{
		ID:            c.Sub,
		FirstName:     flatName(c.GivenName),
		LastName:      flatName(c.FamilyName),
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		SimplifiedUser: providers.SimplifiedUser{
			ID:             c.Sub,
			FirstName:      c.GivenName,
			LastName:       c.FamilyName,
			Email:          c.Email,
			FullName:       fullName,
			ProfilePicture: stringPtr(c.Picture),
		},
	}
	if c.Picture != "" {
		user.ProfilePicture = &ProfilePicture{DisplayImage: c.Picture}
	}
	return user
}

// placeholderUser builds the stand-in user for a failed userinfo call from the
// LinkedIn error body ({"status", "serviceErrorCode", "code", "message"}).
func placeholderUser(body []byte) *UserResponse {
	fields := gjson.GetManyBytes(body, "status", "serviceErrorCode", "code", "message")

	message := fields[3].String()
	if message == "" {
		message = defaultAPIErrorMessage
	}

	return &UserResponse{
		ID:               ErrorUserID,
		FirstName:        flatName(""),
		LastName:         flatName(""),
		Status:           intPtr(fields[0]),
		ServiceErrorCode: intPtr(fields[1]),
		Code:             fields[2].String(),
		Message:          message,
		SimplifiedUser: providers.SimplifiedUser{
			ID: ErrorUserID,
		},
	}
}

// intPtr returns the numeric value of r, or nil when the field is absent or not a number.
func intPtr(r gjson.Result) *int {
	if !r.Exists() || r.Type != gjson.Number {
		return nil
	}
	n := int(r.Int())
	return &n
}
