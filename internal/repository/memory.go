package repository

import (
	"sync"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

// Memory est l'implémentation en mémoire du Store : tranches en ordre
// d'insertion protégées par un mutex, copies de valeurs en lecture pour
// qu'une lecture concurrente observe toujours un enregistrement complet.
// Utilisée par les tests et par cmd/seed --dry-run.
type Memory struct {
	mu sync.Mutex

	users         []domain.User
	inseminations []domain.Insemination
	lactations    []domain.Lactation
	semences      []domain.Semence

	nextID int64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) allocateID() int64 {
	m.nextID++
	return m.nextID
}

/**********************************************
 * Utilisateurs
 **********************************************/

func (m *Memory) GetAllUsers() ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for i := range m.users {
		user := m.users[i]
		users = append(users, &user)
	}
	return users, nil
}

func (m *Memory) GetUserByID(id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == id {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByUsername(username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].Username == username {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].Username == user.Username {
			return ErrDuplicateUsername
		}
		if m.users[i].Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	user.ID = m.allocateID()
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.Version = 1
	m.users = append(m.users, *user)
	return nil
}

func (m *Memory) UpdateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID != user.ID {
			continue
		}
		if m.users[i].Version != user.Version {
			return ErrNotFound
		}
		for j := range m.users {
			if j != i && m.users[j].Email == user.Email {
				return ErrDuplicateEmail
			}
		}
		user.Username = m.users[i].Username
		user.CreatedAt = m.users[i].CreatedAt
		user.Version = m.users[i].Version + 1
		m.users[i] = *user
		return nil
	}
	return ErrNotFound
}

func (m *Memory) DeleteUser(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CheckEmailIfExists(email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].Email == email {
			return true, nil
		}
	}
	return false, nil
}

/**********************************************
 * Inséminations
 **********************************************/

func (m *Memory) GetAllInseminations() ([]*domain.Insemination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inseminations := make([]*domain.Insemination, 0, len(m.inseminations))
	for i := range m.inseminations {
		ins := m.inseminations[i]
		inseminations = append(inseminations, &ins)
	}
	return inseminations, nil
}

func (m *Memory) GetInseminationByID(id int64) (*domain.Insemination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.inseminations {
		if m.inseminations[i].ID == id {
			ins := m.inseminations[i]
			return &ins, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateInsemination(ins *domain.Insemination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins.ID = m.allocateID()
	ins.CreatedAt = time.Now()
	ins.Version = 1
	m.inseminations = append(m.inseminations, *ins)
	return nil
}

func (m *Memory) UpdateInsemination(ins *domain.Insemination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.inseminations {
		if m.inseminations[i].ID != ins.ID {
			continue
		}
		if m.inseminations[i].Version != ins.Version {
			return ErrNotFound
		}
		ins.CreatedAt = m.inseminations[i].CreatedAt
		ins.Version = m.inseminations[i].Version + 1
		m.inseminations[i] = *ins
		return nil
	}
	return ErrNotFound
}

func (m *Memory) DeleteInsemination(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.inseminations {
		if m.inseminations[i].ID == id {
			m.inseminations = append(m.inseminations[:i], m.inseminations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/**********************************************
 * Lactations
 **********************************************/

func (m *Memory) GetAllLactations() ([]*domain.Lactation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lactations := make([]*domain.Lactation, 0, len(m.lactations))
	for i := range m.lactations {
		lac := m.lactations[i]
		lactations = append(lactations, &lac)
	}
	return lactations, nil
}

func (m *Memory) GetLactationByID(id int64) (*domain.Lactation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lactations {
		if m.lactations[i].ID == id {
			lac := m.lactations[i]
			return &lac, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateLactation(lac *domain.Lactation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lac.ID = m.allocateID()
	lac.CreatedAt = time.Now()
	lac.Version = 1
	m.lactations = append(m.lactations, *lac)
	return nil
}

func (m *Memory) UpdateLactation(lac *domain.Lactation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lactations {
		if m.lactations[i].ID != lac.ID {
			continue
		}
		if m.lactations[i].Version != lac.Version {
			return ErrNotFound
		}
		lac.CreatedAt = m.lactations[i].CreatedAt
		lac.Version = m.lactations[i].Version + 1
		m.lactations[i] = *lac
		return nil
	}
	return ErrNotFound
}

func (m *Memory) DeleteLactation(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lactations {
		if m.lactations[i].ID == id {
			m.lactations = append(m.lactations[:i], m.lactations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/**********************************************
 * Semences
 **********************************************/

func (m *Memory) GetAllSemences() ([]*domain.Semence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	semences := make([]*domain.Semence, 0, len(m.semences))
	for i := range m.semences {
		sem := m.semences[i]
		semences = append(semences, &sem)
	}
	return semences, nil
}

func (m *Memory) GetSemenceByID(id int64) (*domain.Semence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.semences {
		if m.semences[i].ID == id {
			sem := m.semences[i]
			return &sem, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateSemence(sem *domain.Semence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.semences {
		if m.semences[i].CodeTaureau == sem.CodeTaureau {
			return ErrDuplicateCodeTaureau
		}
	}

	sem.ID = m.allocateID()
	sem.CreatedAt = time.Now()
	sem.Version = 1
	m.semences = append(m.semences, *sem)
	return nil
}

func (m *Memory) UpdateSemence(sem *domain.Semence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.semences {
		if m.semences[i].ID != sem.ID {
			continue
		}
		if m.semences[i].Version != sem.Version {
			return ErrNotFound
		}
		for j := range m.semences {
			if j != i && m.semences[j].CodeTaureau == sem.CodeTaureau {
				return ErrDuplicateCodeTaureau
			}
		}
		sem.CreatedAt = m.semences[i].CreatedAt
		sem.Version = m.semences[i].Version + 1
		m.semences[i] = *sem
		return nil
	}
	return ErrNotFound
}

func (m *Memory) DeleteSemence(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.semences {
		if m.semences[i].ID == id {
			m.semences = append(m.semences[:i], m.semences[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
