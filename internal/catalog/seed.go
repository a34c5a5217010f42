package catalog

import "github.com/shopspring/decimal"

func seedEntry(code, name, category string, stock int64, supplier string, price string, nextDrop int64, expiry string) Entry {
	return Entry{
		Code:          code,
		Name:          name,
		Category:      category,
		Supplier:      supplier,
		UnitPrice:     decimal.RequireFromString(price),
		Stock:         decimal.NewFromInt(stock),
		NextDropStock: decimal.NewFromInt(nextDrop),
		ExpiryDate:    expiry,
	}
}

// seedEntries is the static catalog the shop opens with.
func seedEntries() []Entry {
	return []Entry{
		seedEntry("AB-001", "Arroz Blanco (1 kg)", "Granos y Cereales", 250, "Distribuidora del Sol", "5.00", 8, "11/08/2025"),
		seedEntry("AB-002", "Frijol Negro (1 kg)", "Granos y Cereales", 300, "Legumbres La Cosecha", "4.00", 10, "20/09/2025"),
		seedEntry("AB-003", "Aceite Vegetal (1 L)", "Aceites y Grasas", 180, "Aceites del Centro", "20.00", 0, ""),
		seedEntry("AB-004", "Azúcar Estándar (1 kg)", "Endulzantes", 400, "Dulce Cañaveral S.A.", "4.00", 0, ""),
		seedEntry("AB-005", "Sal de Mesa (1 kg)", "Condimentos", 500, "Salinera del Pacífico", "5.00", 0, ""),
		seedEntry("AB-006", "Harina de Trigo (1 kg)", "Harinas", 200, "Molinos Modernos", "6.00", 0, ""),
		seedEntry("AB-007", "Lentejas (500 g)", "Granos y Cereales", 150, "Legumbres La Cosecha", "8.00", 50, "11/08/2025"),
		seedEntry("AB-008", "Atún en Aceite (140 g)", "Enlatados", 320, "Conservas Marinas", "8.00", 0, "12/08/2025"),
		seedEntry("AB-009", "Sardinas en Tomate (156 g)", "Enlatados", 280, "Conservas Marinas", "12.00", 0, "13/08/2025"),
		seedEntry("AB-010", "Leche Entera (1 L)", "Lácteos", 240, "Lácteos del Sur", "12.00", 0, "14/08/2025"),
		seedEntry("AB-011", "Café Soluble (200 g)", "Bebidas Calientes", 120, "Cafetalera La Montaña", "40.00", 0, "15/08/2025"),
		seedEntry("AB-012", "Galletas Marías (170 g)", "Galletas y Botanas", 450, "Galletera Nacional", "7.00", 0, "16/08/2025"),
		seedEntry("AB-013", "Pasta para Sopa (200 g)", "Pastas", 350, "Pastas La Italiana", "4.00", 0, "17/08/2025"),
		seedEntry("AB-014", "Mayonesa (400 g)", "Aderezos", 160, "Aderezos Cremosos", "20.00", 0, ""),
		seedEntry("AB-015", "Chiles Jalapeños en Escabeche (220 g)", "Enlatados", 210, "La Huerta Enlatados", "18.00", 0, ""),
		seedEntry("AB-016", "Refresco de Cola (2.5 L)", "Bebidas", 300, "Embotelladora Central", "12.00", 0, ""),
		seedEntry("AB-017", "Agua Purificada (1.5 L)", "Bebidas", 500, "Manantiales Frescos", "5.00", 0, ""),
		seedEntry("AB-018", "Jabón de Tocador (150 g)", "Cuidado Personal", 400, "Jabonera La Espuma", "4.00", 0, "11/08/2025"),
		seedEntry("AB-019", "Papel Higiénico (paquete 4 rollos)", "Limpieza del Hogar", 350, "Papelera Suave", "5.00", 0, "12/08/2025"),
		seedEntry("AB-020", "Detergente en Polvo (1 kg)", "Limpieza del Hogar", 180, "Limpieza Brillante", "25.00", 0, "13/08/2025"),
		seedEntry("AB-021", "Cloro (1 L)", "Limpieza del Hogar", 220, "Químicos del Golfo", "16.00", 0, "14/08/2025"),
		seedEntry("AB-022", "Huevo Blanco (cartera 30 pzas)", "Huevo", 150, "Avícola El Corral", "22.00", 0, "15/08/2025"),
		seedEntry("AB-023", "Pan de Caja Blanco (680 g)", "Panadería", 100, "Panificadora La Espiga", "18.00", 0, "16/08/2025"),
		seedEntry("AB-024", "Mermelada de Fresa (270 g)", "Conservas Dulces", 130, "Frutas del Campo", "13.00", 0, "17/08/2025"),
		seedEntry("AB-025", "Cereal de Maíz Azucarado (500 g)", "Granos y Cereales", 110, "Cereales Nutritivos", "20.00", 0, ""),
		seedEntry("AB-027", "Veladora Aromática", "Varios", 150, "Iluminación La Llama", "30.00", 0, ""),
		seedEntry("AB-028", "Pilas Alcalinas AA (paquete 4)", "Varios", 90, "Energía Duradera", "18.00", 0, ""),
		seedEntry("AB-029", "Pasta Dental (75 ml)", "Cuidado Personal", 170, "Sonrisa Fresca", "10.00", 0, ""),
		seedEntry("AB-030", "Chocolate en Polvo (400 g)", "Bebidas Calientes", 140, "Chocolatera del Sur", "15.00", 0, ""),
	}
}
