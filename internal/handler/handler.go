package handler

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/authz"
	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// NNI : FR suivi de 10 chiffres
var nniPattern = regexp.MustCompile(`^FR[0-9]{10}$`)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  repository.Store
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	// Moteurs de validation par entité, figés au démarrage.
	inseminations *validation.Engine[domain.Insemination]
	lactations    *validation.Engine[domain.Lactation]
	semences      *validation.Engine[domain.Semence]

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo repository.Store, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Les anomalies référencent les champs par leur nom JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	fr := fr.New()
	uni := ut.New(fr, fr)
	trans, _ := uni.GetTranslator("fr")
	if err := fr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("nni", func(fl validator.FieldLevel) bool {
		return nniPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := validate.RegisterTranslation("nni", trans, func(ut ut.Translator) error {
		return ut.Add("nni", "{0} doit être un NNI valide (FR suivi de 10 chiffres)", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("nni", fe.Field())
		return t
	}); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		inseminations: validation.NewEngine(validate, trans, validation.InseminationRules(cfg.Validation.FenetreRetrospective, time.Now)),
		lactations:    validation.NewEngine(validate, trans, validation.LactationRules(cfg.Validation.ToleranceTauxMG, cfg.Validation.FenetreRetrospective, time.Now)),
		semences:      validation.NewEngine(validate, trans, validation.SemenceRules(cfg.Validation.FenetreRetrospective, time.Now)),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// Authentification
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// Les API suivantes exigent un jeton valide ; chaque ressource est en
	// plus gardée par la table de permissions rôle → route.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/menu", h.GetMenu)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/utilisateurs", func(r chi.Router) {
			r.Use(h.requireRoute(authz.RouteUtilisateurs))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/inseminations", func(r chi.Router) {
			r.Use(h.requireRoute(authz.RouteInseminations))
			r.Post("/", h.CreateInsemination)
			r.Get("/", h.GetAllInseminations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.insemination)
				r.Get("/", h.GetInsemination)
				r.Patch("/", h.UpdateInsemination)
				r.Delete("/", h.DeleteInsemination)
			})
		})

		r.Route("/lactations", func(r chi.Router) {
			r.Use(h.requireRoute(authz.RouteLactations))
			r.Post("/", h.CreateLactation)
			r.Get("/", h.GetAllLactations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.lactation)
				r.Get("/", h.GetLactation)
				r.Patch("/", h.UpdateLactation)
				r.Delete("/", h.DeleteLactation)
			})
		})

		r.Route("/semences", func(r chi.Router) {
			r.Use(h.requireRoute(authz.RouteSemences))
			r.Post("/", h.CreateSemence)
			r.Get("/", h.GetAllSemences)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.semence)
				r.Get("/", h.GetSemence)
				r.Patch("/", h.UpdateSemence)
				r.Delete("/", h.DeleteSemence)
			})
		})

		r.With(h.requireRoute(authz.RouteStatistiques)).Get("/statistiques", h.GetStatistiques)
	})
}
