package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * Créer le logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * Lire la configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de lire la configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Créer le client de messagerie
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("impossible de créer le client de messagerie", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// Vérifier que le serveur SMTP est joignable
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("impossible de se connecter au serveur SMTP", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Se connecter à RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("impossible de se connecter à RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("impossible d'ouvrir le canal", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"email_queue", // nom de la file
		true,          // durable
		false,         // pas d'auto-delete : la file survit sans consommateur
		false,         // non exclusive
		false,         // attendre la confirmation de RabbitMQ
		nil,
	)
	if err != nil {
		logger.Error("impossible de déclarer la file", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // identifiant de consommateur attribué par RabbitMQ
		false, // pas d'ack automatique
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("impossible de consommer les messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("message reçu", slog.String("message", string(msg.Body)))

				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("désérialisation du message échouée", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("impossible de définir l'expéditeur", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(mailMessage.To); err != nil {
					logger.Error("impossible de définir le destinataire", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// Corps et objet selon le type de courriel
				switch mailMessage.Type {
				case "create_user":
					tmpl, err := template.ParseFiles("./templates/nouveau_compte.html")
					if err != nil {
						logger.Error("impossible de charger le modèle de courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de construire le corps du courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("Gestion Élevage - Votre compte")
				case "reset_password":
					tmpl, err := template.ParseFiles("./templates/reinitialisation_mot_de_passe.html")
					if err != nil {
						logger.Error("impossible de charger le modèle de courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de construire le corps du courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("Gestion Élevage - Réinitialisation du mot de passe")
				case "change_email":
					tmpl, err := template.ParseFiles("./templates/changement_email.html")
					if err != nil {
						logger.Error("impossible de charger le modèle de courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de construire le corps du courriel", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("Gestion Élevage - Changement d'adresse e-mail")
				default:
					logger.Error("type de courriel non pris en charge", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("envoi du courriel échoué", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // remettre le message dans la file
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("en attente de messages... (CTRL+C pour quitter)")
	<-sigChan

	slog.Info("arrêt du worker mail...")
	cancel()
	wg.Wait()
	slog.Info("worker mail arrêté")
}
