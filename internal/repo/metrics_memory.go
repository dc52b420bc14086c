package repo

type InMemoryMetricsRepository struct {
	products  *InMemoryProductRepository
	clients   *InMemoryClientRepository
	movements *InMemoryMovementRepository
	purchases *InMemoryPurchaseRepository
	payments  *InMemoryPaymentRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (r *InMemoryMetricsRepository) SetRepositories(
	products *InMemoryProductRepository,
	clients *InMemoryClientRepository,
	movements *InMemoryMovementRepository,
	purchases *InMemoryPurchaseRepository,
	payments *InMemoryPaymentRepository,
) {
	r.products = products
	r.clients = clients
	r.movements = movements
	r.purchases = purchases
	r.payments = payments
}

func (r *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	products, _ := r.products.GetAll()
	names := map[int]string{}
	for _, p := range products {
		names[p.ID] = p.Name
		if !p.Active {
			continue
		}
		m.TotalProducts++
		if p.Quantity <= p.Threshold {
			m.LowStockCount++
		}
	}

	clients, _ := r.clients.GetAll()
	for _, c := range clients {
		if c.Active {
			m.TotalClients++
		}
	}

	counts := map[int]int{}
	for _, mv := range r.movements.All() {
		m.TotalMovements++
		counts[mv.ProductID]++
	}
	for id, cnt := range counts {
		if cnt > m.MostMovedProduct.MovementCount {
			m.MostMovedProduct = MostMovedProduct{Name: names[id], MovementCount: cnt}
		}
	}

	for _, p := range r.purchases.All() {
		m.PurchasesTotal += p.Total
	}
	for _, p := range r.payments.All() {
		m.PaymentsTotal += p.Amount
	}

	return m, nil
}
