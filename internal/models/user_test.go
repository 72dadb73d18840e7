package models

import "testing"

// --- IsValidAuthType ---

func TestIsValidAuthType_Standard(t *testing.T) {
	ua := &UserAuth{AuthType: Standard}
	if !ua.IsValidAuthType() {
		t.Error("IsValidAuthType(Standard) should be true")
	}
}

func TestIsValidAuthType_Invalid(t *testing.T) {
	ua := &UserAuth{AuthType: "invalid"}
	if ua.IsValidAuthType() {
		t.Error("IsValidAuthType('invalid') should be false")
	}
}

func TestIsValidAuthType_Empty(t *testing.T) {
	ua := &UserAuth{AuthType: ""}
	if ua.IsValidAuthType() {
		t.Error("IsValidAuthType('') should be false")
	}
}

// --- Subscription tier checks ---

func TestCanUseDiagnosis_Free_UnderLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, DiagnosesUsed: 9}
	if !s.CanUseDiagnosis() {
		t.Error("CanUseDiagnosis: free tier with 9 uses should be true")
	}
}

func TestCanUseDiagnosis_Free_AtLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, DiagnosesUsed: 10}
	if s.CanUseDiagnosis() {
		t.Error("CanUseDiagnosis: free tier with 10 uses should be false")
	}
}

func TestCanUseDiagnosis_Premium(t *testing.T) {
	s := &Subscription{Tier: TierPremium, DiagnosesUsed: 100}
	if !s.CanUseDiagnosis() {
		t.Error("CanUseDiagnosis: premium should always be true")
	}
}

func TestCanUseVoiceQuery_Free_UnderLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, VoiceQueriesUsed: 99}
	if !s.CanUseVoiceQuery() {
		t.Error("CanUseVoiceQuery: free tier with 99 uses should be true")
	}
}

func TestCanUseVoiceQuery_Free_AtLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, VoiceQueriesUsed: 100}
	if s.CanUseVoiceQuery() {
		t.Error("CanUseVoiceQuery: free tier with 100 uses should be false")
	}
}

func TestCanUseVoiceQuery_Premium(t *testing.T) {
	s := &Subscription{Tier: TierPremium, VoiceQueriesUsed: 1000}
	if !s.CanUseVoiceQuery() {
		t.Error("CanUseVoiceQuery: premium should always be true")
	}
}

func TestCanUseChat_Free_UnderLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, ChatMessagesUsed: 199}
	if !s.CanUseChat() {
		t.Error("CanUseChat: free tier with 199 uses should be true")
	}
}

func TestCanUseChat_Free_AtLimit(t *testing.T) {
	s := &Subscription{Tier: TierFree, ChatMessagesUsed: 200}
	if s.CanUseChat() {
		t.Error("CanUseChat: free tier with 200 uses should be false")
	}
}

func TestCanUseChat_Premium(t *testing.T) {
	s := &Subscription{Tier: TierPremium, ChatMessagesUsed: 9999}
	if !s.CanUseChat() {
		t.Error("CanUseChat: premium should always be true")
	}
}

// --- IsValidSubscriptionTier ---

func TestIsValidSubscriptionTier_Free(t *testing.T) {
	s := &Subscription{Tier: TierFree}
	if !s.IsValidSubscriptionTier() {
		t.Error("IsValidSubscriptionTier(TierFree) should be true")
	}
}

func TestIsValidSubscriptionTier_Premium(t *testing.T) {
	s := &Subscription{Tier: TierPremium}
	if !s.IsValidSubscriptionTier() {
		t.Error("IsValidSubscriptionTier(TierPremium) should be true")
	}
}

func TestIsValidSubscriptionTier_Invalid(t *testing.T) {
	s := &Subscription{Tier: "enterprise"}
	if s.IsValidSubscriptionTier() {
		t.Error("IsValidSubscriptionTier('enterprise') should be false")
	}
}

// --- IsValidExperience ---

func TestIsValidExperience_Valid(t *testing.T) {
	for _, level := range []ExperienceLevel{ExperienceBeginner, ExperienceIntermediate, ExperienceExperienced} {
		fp := &FarmProfile{Experience: level}
		if !fp.IsValidExperience() {
			t.Errorf("IsValidExperience(%q) should be true", level)
		}
	}
}

func TestIsValidExperience_Invalid(t *testing.T) {
	fp := &FarmProfile{Experience: "expert"}
	if fp.IsValidExperience() {
		t.Error("IsValidExperience('expert') should be false")
	}
}

func TestIsValidExperience_Empty(t *testing.T) {
	fp := &FarmProfile{Experience: ""}
	if fp.IsValidExperience() {
		t.Error("IsValidExperience('') should be false")
	}
}
