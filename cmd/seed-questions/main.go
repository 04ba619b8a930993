package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/database"
	"github.com/aulavia/examenes-backend/internal/logger"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/repository"
)

type seedQuestion struct {
	enunciado string
	opciones  []string
	correcta  int // index into opciones
}

// Sample food-handling question bank for development environments.
var seedBank = []seedQuestion{
	{
		enunciado: "¿Cuál es la temperatura segura de refrigeración para alimentos perecederos?",
		opciones:  []string{"Entre 0 °C y 4 °C", "Entre 10 °C y 15 °C", "Temperatura ambiente", "Entre 20 °C y 25 °C"},
		correcta:  0,
	},
	{
		enunciado: "¿Cuánto tiempo debe durar, como mínimo, el lavado de manos antes de manipular alimentos?",
		opciones:  []string{"5 segundos", "10 segundos", "20 segundos", "No es necesario si se usan guantes"},
		correcta:  2,
	},
	{
		enunciado: "¿Qué es la contaminación cruzada?",
		opciones: []string{
			"El paso de microorganismos de un alimento crudo a uno listo para consumir",
			"La mezcla de sabores entre distintos platos",
			"El uso de demasiados condimentos",
			"La cocción excesiva de un alimento",
		},
		correcta: 0,
	},
	{
		enunciado: "¿Cuál es la forma correcta de descongelar carne?",
		opciones:  []string{"A temperatura ambiente", "En el refrigerador", "Bajo agua caliente", "Al sol"},
		correcta:  1,
	},
	{
		enunciado: "¿A qué temperatura interna mínima debe cocinarse el pollo?",
		opciones:  []string{"45 °C", "55 °C", "65 °C", "74 °C"},
		correcta:  3,
	},
	{
		enunciado: "¿Dónde deben almacenarse los productos de limpieza en una cocina?",
		opciones: []string{
			"Junto a los alimentos secos",
			"En un área separada y rotulada",
			"Debajo de la mesa de preparación",
			"En el refrigerador",
		},
		correcta: 1,
	},
	{
		enunciado: "¿Qué se debe hacer con un alimento que estuvo más de dos horas a temperatura ambiente?",
		opciones:  []string{"Recalentarlo y servirlo", "Refrigerarlo de inmediato", "Desecharlo", "Congelarlo"},
		correcta:  2,
	},
	{
		enunciado: "¿Cuál de los siguientes es un síntoma común de una enfermedad transmitida por alimentos?",
		opciones:  []string{"Dolor de cabeza leve", "Vómito y diarrea", "Tos seca", "Dolor muscular"},
		correcta:  1,
	},
	{
		enunciado: "¿Qué tabla de picar debe usarse para carnes crudas?",
		opciones: []string{
			"La misma que para verduras",
			"Una tabla exclusiva, separada de otros alimentos",
			"Cualquiera, si se enjuaga con agua",
			"Una tabla de madera sin lavar",
		},
		correcta: 1,
	},
	{
		enunciado: "¿Cuándo debe cambiarse el uniforme o delantal de trabajo?",
		opciones:  []string{"Una vez por semana", "Cuando esté visiblemente sucio o al iniciar la jornada", "Solo si hay inspección", "Nunca, si se usa poco"},
		correcta:  1,
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Printf("=== Seeding %d Questions ===\n", len(seedBank))

	successCount := 0
	for _, sq := range seedBank {
		question := &model.Question{Enunciado: sq.enunciado, Activa: true}

		opts := make([]model.Option, len(sq.opciones))
		for i, texto := range sq.opciones {
			opts[i] = model.Option{Texto: texto, EsCorrecta: i == sq.correcta}
		}

		if err := questionRepo.CreateWithOptions(ctx, question, opts); err != nil {
			fmt.Printf("Error creating question %q: %v\n", sq.enunciado, err)
			continue
		}
		successCount++
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(seedBank))
}
