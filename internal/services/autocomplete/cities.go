package autocomplete

// defaultCities запасной справочник, если каталог ubicaciones недоступен
var defaultCities = []Suggestion{
	{City: "Bogotá", Region: "Cundinamarca"},
	{City: "Soacha", Region: "Cundinamarca"},
	{City: "Zipaquirá", Region: "Cundinamarca"},
	{City: "Girardot", Region: "Cundinamarca"},
	{City: "Medellín", Region: "Antioquia"},
	{City: "Bello", Region: "Antioquia"},
	{City: "Envigado", Region: "Antioquia"},
	{City: "Rionegro", Region: "Antioquia"},
	{City: "Cali", Region: "Valle del Cauca"},
	{City: "Palmira", Region: "Valle del Cauca"},
	{City: "Buenaventura", Region: "Valle del Cauca"},
	{City: "Tuluá", Region: "Valle del Cauca"},
	{City: "Barranquilla", Region: "Atlántico"},
	{City: "Soledad", Region: "Atlántico"},
	{City: "Cartagena", Region: "Bolívar"},
	{City: "Santa Marta", Region: "Magdalena"},
	{City: "Valledupar", Region: "Cesar"},
	{City: "Montería", Region: "Córdoba"},
	{City: "Sincelejo", Region: "Sucre"},
	{City: "Riohacha", Region: "La Guajira"},
	{City: "Bucaramanga", Region: "Santander"},
	{City: "Barrancabermeja", Region: "Santander"},
	{City: "Cúcuta", Region: "Norte de Santander"},
	{City: "Tunja", Region: "Boyacá"},
	{City: "Duitama", Region: "Boyacá"},
	{City: "Sogamoso", Region: "Boyacá"},
	{City: "Villavicencio", Region: "Meta"},
	{City: "Yopal", Region: "Casanare"},
	{City: "Ibagué", Region: "Tolima"},
	{City: "Neiva", Region: "Huila"},
	{City: "Pitalito", Region: "Huila"},
	{City: "Pereira", Region: "Risaralda"},
	{City: "Manizales", Region: "Caldas"},
	{City: "Armenia", Region: "Quindío"},
	{City: "Popayán", Region: "Cauca"},
	{City: "Pasto", Region: "Nariño"},
	{City: "Ipiales", Region: "Nariño"},
	{City: "Tumaco", Region: "Nariño"},
	{City: "Mocoa", Region: "Putumayo"},
	{City: "Florencia", Region: "Caquetá"},
	{City: "Quibdó", Region: "Chocó"},
	{City: "Arauca", Region: "Arauca"},
	{City: "Leticia", Region: "Amazonas"},
	{City: "San Andrés", Region: "San Andrés y Providencia"},
}

// DefaultCities копия статического справочника
func DefaultCities() []Suggestion {
	out := make([]Suggestion, len(defaultCities))
	copy(out, defaultCities)
	return out
}
