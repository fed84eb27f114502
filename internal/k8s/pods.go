package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/pager"
)

// ListPodPhases lists pods in every namespace, following continue tokens, and
// returns the phase of each one.
func (c *Client) ListPodPhases(ctx context.Context) ([]corev1.PodPhase, error) {
	p := pager.New(pager.SimplePageFunc(func(opts metav1.ListOptions) (runtime.Object, error) {
		return c.clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, opts)
	}))
	if c.pageSize > 0 {
		p.PageSize = c.pageSize
	}

	var phases []corev1.PodPhase
	err := p.EachListItem(ctx, metav1.ListOptions{}, func(obj runtime.Object) error {
		pod, ok := obj.(*corev1.Pod)
		if !ok {
			return fmt.Errorf("unexpected object %T in pod list", obj)
		}
		phases = append(phases, pod.Status.Phase)
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return phases, nil
}

// CountRunning returns how many phases are exactly PodRunning.
func CountRunning(phases []corev1.PodPhase) int {
	count := 0
	for _, phase := range phases {
		if phase == corev1.PodRunning {
			count++
		}
	}
	return count
}
