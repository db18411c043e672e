package racket

import (
	"fmt"
	"strings"

	"smashly-api/internal/pkg/common"
)

// buildCatalogLine 將球拍壓縮成單行目錄描述，控制 prompt 長度
// 格式：id|marca nombre|nivel|forma|balance|precio|P:x C:x M:x Conf:x|Cert
func buildCatalogLine(entry ScoredRacket) string {
	r := entry.Racket

	price := "N/D"
	if r.Price > 0 {
		price = fmt.Sprintf("%.0f€", r.Price)
	}

	m := MetricsFor(r)
	cert := "No"
	if m.Certificado {
		cert = "Sí"
	}

	return fmt.Sprintf("%d|%s %s|%s|%s|%s|%s|P:%.0f C:%.0f M:%.0f Conf:%.0f|Cert:%s",
		r.ID,
		r.Brand,
		r.Name,
		orUnknown(r.GameLevel),
		orUnknown(r.Shape),
		orUnknown(r.Balance),
		price,
		m.Potencia, m.Control, m.Manejabilidad, m.Confort,
		cert,
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/D"
	}
	return s
}

// buildProfileSummary 組裝使用者輪廓描述
func buildProfileSummary(profile *common.UserProfile, advanced bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("- Nivel: %s\n", orUnknown(profile.Level)))
	sb.WriteString(fmt.Sprintf("- Presupuesto: %s\n", orUnknown(profile.Budget.String())))
	sb.WriteString(fmt.Sprintf("- Frecuencia de juego: %s\n", orUnknown(profile.Frequency)))
	sb.WriteString(fmt.Sprintf("- Lesiones: %s\n", orUnknown(profile.Injuries)))
	if profile.Gender != "" {
		sb.WriteString(fmt.Sprintf("- Género: %s\n", profile.Gender))
	}
	if profile.PhysicalCondition != "" {
		sb.WriteString(fmt.Sprintf("- Condición física: %s\n", profile.PhysicalCondition))
	}
	if profile.TouchPreference != "" {
		sb.WriteString(fmt.Sprintf("- Preferencia de tacto: %s\n", profile.TouchPreference))
	}
	if profile.CurrentRacket != "" {
		sb.WriteString(fmt.Sprintf("- Pala actual: %s\n", profile.CurrentRacket))
	}

	if advanced {
		if profile.PlayStyle != "" {
			sb.WriteString(fmt.Sprintf("- Estilo de juego: %s\n", profile.PlayStyle))
		}
		if profile.Position != "" {
			sb.WriteString(fmt.Sprintf("- Posición en pista: %s\n", profile.Position))
		}
		if profile.BalancePreference != "" {
			sb.WriteString(fmt.Sprintf("- Preferencia de balance: %s\n", profile.BalancePreference))
		}
		if profile.ShapePreference != "" {
			sb.WriteString(fmt.Sprintf("- Preferencia de forma: %s\n", profile.ShapePreference))
		}
		if len(profile.Objectives) > 0 {
			sb.WriteString(fmt.Sprintf("- Objetivos: %s\n", common.StringSliceToString(profile.Objectives)))
		}
	}

	return sb.String()
}

// buildRecommendationPrompt 組裝推薦 prompt
// 只列出候選清單中的球拍，要求模型從中挑選恰好 3 支並回傳緊湊 JSON
func buildRecommendationPrompt(profile *common.UserProfile, shortlist []ScoredRacket, advanced bool) string {
	lines := make([]string, len(shortlist))
	for i, entry := range shortlist {
		lines[i] = buildCatalogLine(entry)
	}

	return fmt.Sprintf(`Eres un experto en pádel especializado en recomendar palas según el perfil del jugador.

PERFIL DEL JUGADOR:
%s
PALAS CANDIDATAS (formato: id|marca nombre|nivel|forma|balance|precio|métricas|certificación):
%s

INSTRUCCIONES:
1. Elige EXACTAMENTE 3 palas de la lista anterior, usando ÚNICAMENTE los ids mostrados
2. No inventes palas ni ids que no aparezcan en la lista
3. Asigna a cada pala un match_score entre 0 y 100 según el ajuste al perfil
4. Explica en "reason" por qué cada pala encaja con el perfil (2-3 frases en español)
5. En "analysis" resume la estrategia de selección para este jugador
6. Responde SOLO con un objeto JSON compacto, sin texto adicional ni bloques de código
7. Todas las claves deben ir entre comillas dobles

FORMATO DE RESPUESTA:
{"rackets":[{"id":1,"match_score":95,"reason":"..."},{"id":2,"match_score":88,"reason":"..."},{"id":3,"match_score":82,"reason":"..."}],"analysis":"..."}`,
		buildProfileSummary(profile, advanced),
		strings.Join(lines, "\n"))
}

// buildComparisonPrompt 組裝比較 prompt
// 單次請求同時要求敘事段落、動態比較表與五軸性能向量
func buildComparisonPrompt(rackets []common.Racket, profile *common.UserProfile) string {
	var sb strings.Builder

	sb.WriteString("Eres un experto en pádel. Compara las siguientes palas de forma objetiva y detallada.\n\n")
	sb.WriteString("PALAS A COMPARAR:\n")

	names := make([]string, len(rackets))
	for i, r := range rackets {
		names[i] = r.Name
		m := MetricsFor(r)
		salida, punto := DerivedMetrics(r)

		sb.WriteString(fmt.Sprintf("\n%d. %s %s\n", i+1, r.Brand, r.Name))
		if r.Price > 0 {
			sb.WriteString(fmt.Sprintf("   - Precio: %.2f€\n", r.Price))
		}
		sb.WriteString(fmt.Sprintf("   - Forma: %s | Balance: %s | Dureza: %s\n",
			orUnknown(r.Shape), orUnknown(r.Balance), orUnknown(r.Hardness)))
		if r.Weight > 0 {
			sb.WriteString(fmt.Sprintf("   - Peso: %.0fg\n", r.Weight))
		}
		if m.Certificado {
			sb.WriteString(fmt.Sprintf("   - Métricas certificadas Testea Pádel: Potencia %.1f, Control %.1f, Manejabilidad %.1f, Confort %.1f\n",
				m.Potencia, m.Control, m.Manejabilidad, m.Confort))
		} else {
			sb.WriteString(fmt.Sprintf("   - Métricas estimadas: Potencia %.1f, Control %.1f, Manejabilidad %.1f, Confort %.1f\n",
				m.Potencia, m.Control, m.Manejabilidad, m.Confort))
		}
		sb.WriteString(fmt.Sprintf("   - Salida de bola: %s | Punto dulce: %s\n", salida, punto))
	}

	if profile != nil && profile.Level != "" {
		sb.WriteString("\nPERFIL DEL JUGADOR QUE SOLICITA LA COMPARACIÓN:\n")
		sb.WriteString(buildProfileSummary(profile, profile.PlayStyle != ""))
	}

	sb.WriteString(`
INSTRUCCIONES:
1. Responde SOLO con un objeto JSON, sin texto adicional ni bloques de código
2. En "metrics" incluye una entrada por pala con valores de 0 a 10; usa las métricas certificadas cuando existan
3. "racketName" debe coincidir exactamente con el nombre de la pala
4. "comparisonTable" es una tabla dinámica: cada fila es un objeto con la clave "feature" y una clave por pala

FORMATO DE RESPUESTA:
{
  "executiveSummary": "resumen ejecutivo de la comparación",
  "technicalAnalysis": [{"title": "Potencia", "content": "..."}, {"title": "Control", "content": "..."}],
  "comparisonTable": [{"feature": "Forma", "` + names[0] + `": "...", "...": "..."}],
  "recommendedProfiles": "qué perfil de jugador encaja con cada pala",
  "biomechanicalConsiderations": "consideraciones de salud y prevención de lesiones",
  "conclusion": "conclusión final",
  "metrics": [{"racketName": "` + names[0] + `", "potencia": 8, "control": 7, "salidaDeBola": 6, "manejabilidad": 7, "puntoDulce": 6}]
}`)

	return sb.String()
}
