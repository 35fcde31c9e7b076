package weather

// WMO weather interpretation codes mapped to the portal's Spanish labels.
// The table is finite; anything the upstream adds later falls back to a
// generic label rather than an error.
var conditionLabels = map[int]string{
	0:  "Despejado",
	1:  "Mayormente despejado",
	2:  "Parcialmente nublado",
	3:  "Nublado",
	45: "Niebla",
	48: "Niebla con escarcha",
	51: "Llovizna ligera",
	53: "Llovizna moderada",
	55: "Llovizna intensa",
	56: "Llovizna helada ligera",
	57: "Llovizna helada intensa",
	61: "Lluvia ligera",
	63: "Lluvia moderada",
	65: "Lluvia fuerte",
	66: "Lluvia helada ligera",
	67: "Lluvia helada intensa",
	71: "Nevada ligera",
	73: "Nevada moderada",
	75: "Nevada intensa",
	77: "Granos de nieve",
	80: "Aguaceros ligeros",
	81: "Aguaceros moderados",
	82: "Aguaceros violentos",
	85: "Chubascos de nieve ligeros",
	86: "Chubascos de nieve intensos",
	95: "Tormenta",
	96: "Tormenta con granizo ligero",
	99: "Tormenta con granizo fuerte",
}

const unknownCondition = "Condición desconocida"

// ConditionLabel returns the Spanish label for a WMO weather code.
func ConditionLabel(code int) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return unknownCondition
}
