package services

import "emberly_server/models"

// ConsentDecision is the outcome of evaluating whether sender may message
// recipient right now.
type ConsentDecision struct {
	Allowed          bool
	RequiresApproval bool
	Reason           string
}

// EvaluateConsent applies the messaging-consent rules in order, first match
// wins:
//
//  1. recipient blocked sender            -> deny BLOCKED_BY_PEER
//  2. sender blocked recipient            -> deny I_BLOCKED
//  3. recipient accepts messages from none -> deny DM_DISABLED
//  4. recipient accepts from friends only and sender is not a follower
//     -> allow, approval required
//  5. otherwise                           -> allow outright
//
// Pure over the two profile snapshots. Block and privacy state change
// mid-conversation, so this runs fresh on every conversation-create and every
// send; results are never cached.
func EvaluateConsent(sender, recipient *models.UserProfile) ConsentDecision {
	if recipient.HasBlocked(sender.UserID) {
		return ConsentDecision{Allowed: false, Reason: models.ReasonBlockedByPeer}
	}
	if sender.HasBlocked(recipient.UserID) {
		return ConsentDecision{Allowed: false, Reason: models.ReasonIBlocked}
	}

	switch recipient.MessagesFrom() {
	case models.AllowMessagesNone:
		return ConsentDecision{Allowed: false, Reason: models.ReasonDMDisabled}
	case models.AllowMessagesFriends:
		if !recipient.HasFollower(sender.UserID) {
			return ConsentDecision{Allowed: true, RequiresApproval: true}
		}
	}

	return ConsentDecision{Allowed: true}
}
