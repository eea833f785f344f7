package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"task-manager/backend/logging"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type GoogleTokenInfo struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Audience   string `json:"aud"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// VerifyGoogleIDToken checks an ID token against Google's tokeninfo
// endpoint and returns its claims. When GOOGLE_CLIENT_ID is set, the
// token's audience must match it.
func VerifyGoogleIDToken(client *http.Client, idToken string) (*GoogleTokenInfo, error) {
	logging.Logger.Debug("Event ID: VERIFY_GOOGLE_TOKEN_START, Description: Attempting to verify Google ID token.")

	data := url.Values{}
	data.Set("id_token", idToken)

	resp, err := client.PostForm(googleTokenInfoURL, data)
	if err != nil {
		logging.Logger.Errorf("Event ID: VERIFY_GOOGLE_TOKEN_HTTP_FAILED, Description: Error sending request to Google API: %v", err)
		return nil, fmt.Errorf("error sending request to Google API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Logger.Warnf("Event ID: VERIFY_GOOGLE_TOKEN_REJECTED, Description: Google API rejected the token with status: %s", resp.Status)
		return nil, fmt.Errorf("google rejected the token: %s", resp.Status)
	}

	var info GoogleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		logging.Logger.Errorf("Event ID: VERIFY_GOOGLE_TOKEN_DECODE_FAILED, Description: Error decoding Google API response: %v", err)
		return nil, fmt.Errorf("error decoding Google API response: %v", err)
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID != "" && info.Audience != clientID {
		logging.Logger.Warnf("Event ID: VERIFY_GOOGLE_TOKEN_AUDIENCE_MISMATCH, Description: Token audience %s does not match configured client id.", info.Audience)
		return nil, fmt.Errorf("token audience mismatch")
	}

	logging.Logger.Infof("Event ID: VERIFY_GOOGLE_TOKEN_SUCCESS, Description: Google ID token verified for subject %s.", info.Sub)
	return &info, nil
}
