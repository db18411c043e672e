package racket

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"smashly-api/internal/pkg/common"
)

// Fingerprint 計算使用者輪廓的確定性指紋，作為推薦結果的快取鍵
// 只納入影響推薦決策的欄位；自由文字欄位（如目前使用的球拍心得）不參與
// 鍵以排序後的 JSON 正規化，欄位順序不影響結果
func Fingerprint(profile *common.UserProfile, advanced bool) string {
	essential := map[string]interface{}{
		"level":     normalizeField(profile.Level),
		"budget":    normalizeField(profile.Budget.String()),
		"injuries":  normalizeField(profile.Injuries),
		"frequency": normalizeField(profile.Frequency),
	}

	if profile.Gender != "" {
		essential["gender"] = normalizeField(profile.Gender)
	}
	if profile.PhysicalCondition != "" {
		essential["physical_condition"] = normalizeField(profile.PhysicalCondition)
	}
	if profile.TouchPreference != "" {
		essential["touch_preference"] = normalizeField(profile.TouchPreference)
	}

	// 進階表單額外納入打法相關欄位
	if advanced {
		if profile.PlayStyle != "" {
			essential["play_style"] = normalizeField(profile.PlayStyle)
		}
		if profile.Position != "" {
			essential["position"] = normalizeField(profile.Position)
		}
		if profile.BalancePreference != "" {
			essential["balance_preference"] = normalizeField(profile.BalancePreference)
		}
		if profile.ShapePreference != "" {
			essential["shape_preference"] = normalizeField(profile.ShapePreference)
		}
		if profile.WeightPreference != "" {
			essential["weight_preference"] = normalizeField(profile.WeightPreference)
		}
		if len(profile.Objectives) > 0 {
			objectives := make([]string, len(profile.Objectives))
			for i, o := range profile.Objectives {
				objectives[i] = normalizeField(o)
			}
			essential["objectives"] = objectives
		}
		if len(profile.CharacteristicPriorities) > 0 {
			essential["characteristic_priorities"] = profile.CharacteristicPriorities
		}
	}

	// encoding/json 對 map 鍵做字典序輸出，天然正規化
	data, err := json.Marshal(essential)
	if err != nil {
		data = []byte(profile.Level + "|" + profile.Budget.String())
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
