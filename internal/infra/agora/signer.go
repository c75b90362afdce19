// Package agora adapts the platform token builders to service.Signer.
package agora

import (
	"fmt"

	"github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
	"github.com/AgoraIO-Community/go-tokenbuilder/rtmtokenbuilder"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// Signer builds RTC and RTM tokens with the official builders.
type Signer struct{}

// NewSigner creates a Signer.
func NewSigner() *Signer {
	return &Signer{}
}

// SignRTC builds an RTC token for uid in channelName. uid 0 lets the
// platform assign one on join.
func (Signer) SignRTC(appID, appCertificate, channelName string, uid uint32, role domain.Role, expireAt uint32) (string, error) {
	r, err := rtcRole(role)
	if err != nil {
		return "", err
	}
	return rtctokenbuilder.BuildTokenWithUID(appID, appCertificate, channelName, uid, r, expireAt)
}

// SignRTM builds an RTM token for the user account.
func (Signer) SignRTM(appID, appCertificate, account string, expireAt uint32) (string, error) {
	return rtmtokenbuilder.BuildToken(appID, appCertificate, account, rtmtokenbuilder.RoleRtmUser, expireAt)
}

func rtcRole(role domain.Role) (rtctokenbuilder.Role, error) {
	switch role {
	case domain.RolePublisher:
		return rtctokenbuilder.RolePublisher, nil
	case domain.RoleSubscriber:
		return rtctokenbuilder.RoleSubscriber, nil
	default:
		return 0, fmt.Errorf("agora: unsupported role %q", role)
	}
}
